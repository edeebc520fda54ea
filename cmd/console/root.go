package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/client/store"
	"github.com/xiebiao/library/internal/client/transport"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// app 命令共享的依赖,在PersistentPreRunE中初始化
type app struct {
	configFile string
	local      bool
	asJSON     bool

	out   io.Writer
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "console",
		Short:         "图书馆管理控制台",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "配置文件路径(默认config/config.yaml)")
	flags.BoolVar(&a.local, "local", false, "不访问API,直接使用本地种子数据")
	flags.BoolVar(&a.asJSON, "json", false, "以JSON格式输出")

	root.AddCommand(
		newBooksCmd(a),
		newMembersCmd(a),
		newTransactionsCmd(a),
		newIssueCmd(a),
		newReturnCmd(a),
		newDashboardCmd(a),
		newEventsCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.LoadFile(a.configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	a.cfg = cfg

	// 控制台输出留给命令结果,日志写到stderr
	output := cfg.Log.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	a.log, err = logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	policy, err := policyOf(cfg)
	if err != nil {
		return err
	}

	var t transport.Transport
	if a.local {
		t = transport.NewSeededLocal(policy, a.log)
	} else {
		t = transport.New(cfg.Client, policy, a.log)
	}
	a.store = store.New(t, store.WithLogger(a.log))
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func policyOf(cfg *config.Config) (transaction.Policy, error) {
	fine, err := cfg.Library.DailyFineAmount()
	if err != nil {
		return transaction.Policy{}, fmt.Errorf("library.daily_fine格式错误: %w", err)
	}
	return transaction.Policy{LoanPeriod: cfg.Library.LoanPeriod(), DailyFine: fine}, nil
}
