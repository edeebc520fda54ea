// Package library 借阅业务用例：借出、归还、逾期推导、罚款计算、图书/会员维护和统计
//
// 设计说明:
// 1. 借出/归还在同一个TxManager事务内完成，库存和借阅记录要么都改要么都不改
// 2. 仓储、事务管理器、时钟、ID生成器都是接口，MySQL和内存种子数据共用同一套业务规则
// 3. 事务提交后才发布借阅事件，事件发布失败只记日志，不影响借阅结果
package library

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/logger"
)

const tracerName = "library"

// Clock 时钟接口（测试中固定时间）
type Clock interface {
	Now() time.Time
}

// ClockFunc 函数适配为Clock
type ClockFunc func() time.Time

// Now 实现Clock
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 系统时钟
func SystemClock() Clock { return systemClock{} }

// IDGenerator 实体ID生成器
type IDGenerator interface {
	NewID() string
}

type ulidGenerator struct{}

// NewID ULID按时间有序，列表按ID排序即按创建时间排序
func (ulidGenerator) NewID() string {
	return ulid.Make().String()
}

// ULIDGenerator 默认ID生成器
func ULIDGenerator() IDGenerator { return ulidGenerator{} }

// TxManager 事务管理器
// fn内通过ctx调用的仓储方法必须参与同一事务；fn返回error时全部回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 借阅事件发布（mq.Publisher实现该接口）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Service 借阅服务
type Service struct {
	books     book.Repository
	members   member.Repository
	txs       transaction.Repository
	txManager TxManager
	policy    transaction.Policy
	clock     Clock
	ids       IDGenerator
	events    EventPublisher
	logger    *zap.Logger
}

// NewService 创建借阅服务
// clock、ids、events、log可以为nil，分别使用系统时钟、ULID、不发布事件、不输出日志
func NewService(
	books book.Repository,
	members member.Repository,
	txs transaction.Repository,
	txManager TxManager,
	policy transaction.Policy,
	clock Clock,
	ids IDGenerator,
	events EventPublisher,
	log *zap.Logger,
) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	if ids == nil {
		ids = ulidGenerator{}
	}
	return &Service{
		books:     books,
		members:   members,
		txs:       txs,
		txManager: txManager,
		policy:    policy,
		clock:     clock,
		ids:       ids,
		events:    events,
		logger:    logger.OrNop(log).Named("library"),
	}
}

// Policy 当前借阅规则
func (s *Service) Policy() transaction.Policy {
	return s.policy
}
