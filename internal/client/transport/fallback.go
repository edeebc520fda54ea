package transport

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// BreakerName API熔断器名称(日志和指标标签)
const BreakerName = "library-api"

// FallbackTransport 优先调用primary,失败时降级到local
//
// 降级条件:传输错误(网络不可用、5xx、响应无法解析)或熔断器打开。
// 业务错误(图书不存在、没有可借副本)说明API正常,原样返回,不降级。
type FallbackTransport struct {
	primary Transport
	local   Transport
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// NewFallback 创建降级传输
func NewFallback(primary, local Transport, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *FallbackTransport {
	return &FallbackTransport{
		primary: primary,
		local:   local,
		breaker: breaker,
		log:     logger.OrNop(log).Named("transport"),
	}
}

// NewBreaker 根据配置创建API熔断器,只有传输错误计为失败
func NewBreaker(cfg config.BreakerConfig, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	log = logger.OrNop(log)
	return circuitbreaker.New(BreakerName, circuitbreaker.Config{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.ConsecutiveFailures),
		IsFailure:   apperrors.IsTransportError,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// New 根据客户端配置创建传输:开启seed_fallback时API不可用降级到本地种子数据
func New(cfg config.ClientConfig, policy transaction.Policy, log *zap.Logger) Transport {
	api := NewHTTP(cfg.BaseURL, cfg.Timeout)
	if !cfg.SeedFallback {
		return api
	}
	return NewFallback(api, NewSeededLocal(policy, log), NewBreaker(cfg.Breaker, log), log)
}

// shouldFallback 传输错误或熔断器打开
func shouldFallback(err error) bool {
	return errors.Is(err, circuitbreaker.ErrOpenState) || apperrors.IsTransportError(err)
}

func call[T any](ctx context.Context, f *FallbackTransport, op string, fn func(Transport) (T, error)) (T, error) {
	var out T
	err := f.breaker.Execute(func() error {
		var err error
		out, err = fn(f.primary)
		return err
	})
	if err == nil || !shouldFallback(err) {
		return out, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, ctxErr
	}

	metrics.IncCounterVec(metrics.TransportFallbacksTotal, map[string]string{"operation": op})
	f.log.Warn("API不可用,使用本地数据", zap.String("operation", op), zap.Error(err))
	return fn(f.local)
}

func exec(ctx context.Context, f *FallbackTransport, op string, fn func(Transport) error) error {
	_, err := call(ctx, f, op, func(t Transport) (struct{}, error) {
		return struct{}{}, fn(t)
	})
	return err
}

func (f *FallbackTransport) ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	return call(ctx, f, "ListBooks", func(t Transport) ([]*book.Book, error) {
		return t.ListBooks(ctx, filter)
	})
}

func (f *FallbackTransport) GetBook(ctx context.Context, id string) (*book.Book, error) {
	return call(ctx, f, "GetBook", func(t Transport) (*book.Book, error) {
		return t.GetBook(ctx, id)
	})
}

func (f *FallbackTransport) CreateBook(ctx context.Context, form book.FormData) (*book.Book, error) {
	return call(ctx, f, "CreateBook", func(t Transport) (*book.Book, error) {
		return t.CreateBook(ctx, form)
	})
}

func (f *FallbackTransport) UpdateBook(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	return call(ctx, f, "UpdateBook", func(t Transport) (*book.Book, error) {
		return t.UpdateBook(ctx, id, patch)
	})
}

func (f *FallbackTransport) DeleteBook(ctx context.Context, id string) error {
	return exec(ctx, f, "DeleteBook", func(t Transport) error {
		return t.DeleteBook(ctx, id)
	})
}

func (f *FallbackTransport) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	return call(ctx, f, "ListMembers", func(t Transport) ([]*member.Member, error) {
		return t.ListMembers(ctx, filter)
	})
}

func (f *FallbackTransport) GetMember(ctx context.Context, id string) (*member.Member, error) {
	return call(ctx, f, "GetMember", func(t Transport) (*member.Member, error) {
		return t.GetMember(ctx, id)
	})
}

func (f *FallbackTransport) CreateMember(ctx context.Context, form member.FormData) (*member.Member, error) {
	return call(ctx, f, "CreateMember", func(t Transport) (*member.Member, error) {
		return t.CreateMember(ctx, form)
	})
}

func (f *FallbackTransport) UpdateMember(ctx context.Context, id string, patch member.Patch) (*member.Member, error) {
	return call(ctx, f, "UpdateMember", func(t Transport) (*member.Member, error) {
		return t.UpdateMember(ctx, id, patch)
	})
}

func (f *FallbackTransport) DeleteMember(ctx context.Context, id string) error {
	return exec(ctx, f, "DeleteMember", func(t Transport) error {
		return t.DeleteMember(ctx, id)
	})
}

func (f *FallbackTransport) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return call(ctx, f, "ListTransactions", func(t Transport) ([]*transaction.Transaction, error) {
		return t.ListTransactions(ctx, filter)
	})
}

func (f *FallbackTransport) IssueBook(ctx context.Context, bookID, memberID string) (*transaction.Transaction, error) {
	return call(ctx, f, "IssueBook", func(t Transport) (*transaction.Transaction, error) {
		return t.IssueBook(ctx, bookID, memberID)
	})
}

func (f *FallbackTransport) ReturnBook(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return call(ctx, f, "ReturnBook", func(t Transport) (*transaction.Transaction, error) {
		return t.ReturnBook(ctx, transactionID)
	})
}

var (
	_ Transport = (*HTTPTransport)(nil)
	_ Transport = (*LocalTransport)(nil)
	_ Transport = (*FallbackTransport)(nil)
)
