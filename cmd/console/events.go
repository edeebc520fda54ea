package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/pkg/mq"
)

// newEventsCmd 订阅API服务发布的借阅事件并实时打印
func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "实时查看借出/归还事件(需要启用mq)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.MQ.Enabled {
				return fmt.Errorf("mq未启用,请设置mq.enabled=true")
			}
			consumer, err := mq.NewConsumer(a.cfg.MQ.URL, a.cfg.MQ.Exchange, mq.ExchangeTopic,
				a.cfg.MQ.Queue, []string{"book.#"}, a.log)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return consumer.Consume(ctx, func(routingKey string, body []byte) error {
				var ev library.LoanEvent
				if err := json.Unmarshal(body, &ev); err != nil {
					// 格式错误的消息重新入队也无法处理,打印后确认
					fmt.Fprintf(a.out, "%s 无法解析: %s\n", routingKey, body)
					return nil
				}
				return a.printEvent(routingKey, ev)
			})
		},
	}
}

func (a *app) printEvent(routingKey string, ev library.LoanEvent) error {
	if a.asJSON {
		return a.render(ev, "", nil)
	}
	switch routingKey {
	case library.RoutingKeyReturned:
		fine := ev.Fine
		if fine == "" {
			fine = "0"
		}
		fmt.Fprintf(a.out, "[%s] %s 归还《%s》 罚款 %s\n", ev.OccurredAt.Format("2006-01-02 15:04:05"), ev.MemberName, ev.BookTitle, fine)
	default:
		fmt.Fprintf(a.out, "[%s] %s 借出《%s》 到期 %s\n", ev.OccurredAt.Format("2006-01-02 15:04:05"), ev.MemberName, ev.BookTitle, dateOf(ev.DueDate))
	}
	return nil
}
