package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/client/transport"
	"github.com/xiebiao/library/pkg/logger"
)

// ErrClosed Store已关闭,结果被丢弃
var ErrClosed = errors.New("store: closed")

// Listener 订阅者,每次状态变化收到一份独立快照
// 在发起dispatch的goroutine中同步调用,不要在回调里阻塞
type Listener func(State)

// Store 客户端状态仓库
type Store struct {
	transport transport.Transport
	log       *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	state     State
	closed    bool
	listeners map[uint64]Listener
	nextID    uint64
}

// Option Store配置项
type Option func(*Store)

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = logger.OrNop(log) }
}

// WithClock 设置当前时间来源(推导逾期状态、本地修正可借数量时使用)
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New 创建Store,所有远程调用经由t完成
func New(t transport.Transport, opts ...Option) *Store {
	s := &Store{
		transport: t,
		log:       zap.NewNop(),
		now:       time.Now,
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State 当前状态快照
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe 注册订阅者,返回取消订阅函数
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch 依次应用动作并通知订阅者
// Store已关闭时返回false
func (s *Store) Dispatch(actions ...Action) bool {
	return s.commit(context.Background(), actions...)
}

// Close 关闭Store,之后到达的结果全部丢弃,订阅者不再收到通知
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[uint64]Listener)
}

// commit 在同一把锁内应用一组动作,只通知一次
// ctx已结束或Store已关闭时丢弃
func (s *Store) commit(ctx context.Context, actions ...Action) bool {
	return s.update(ctx, func(State) []Action { return actions })
}

// update 持锁时根据当前状态生成动作并应用
// build不能回调Store的其他方法
func (s *Store) update(ctx context.Context, build func(State) []Action) bool {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	for _, a := range build(s.state) {
		s.state = Reduce(s.state, a)
	}
	snapshot := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.clone())
	}
	return true
}

// run 执行一次远程调用:
//  1. 期间loading计数+1,任何返回路径都会减回
//  2. 失败时记录SET_ERROR并把错误原样返回
//  3. 成功时持锁应用apply返回的动作并清除旧的错误提示
//  4. ctx已结束或Store已关闭时丢弃结果
func run[T any](ctx context.Context, s *Store, failure string, call func(context.Context) (T, error), apply func(T, State) []Action) (T, error) {
	s.commit(context.Background(), SetLoadingAction(true))
	defer s.commit(context.Background(), SetLoadingAction(false))

	v, err := call(ctx)
	if err != nil {
		msg := failure + ": " + messageOf(err)
		if s.commit(ctx, SetErrorAction(msg)) {
			s.log.Warn(failure, zap.Error(err))
		}
		return v, err
	}

	applied := s.update(ctx, func(st State) []Action {
		return append(apply(v, st), SetErrorAction(""))
	})
	if !applied {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return v, ctxErr
		}
		return v, ErrClosed
	}
	return v, nil
}
