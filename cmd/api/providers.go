package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/mq"
)

// storage 借阅服务依赖的仓储和事务管理器
type storage struct {
	Books        book.Repository
	Members      member.Repository
	Transactions transaction.Repository
	TxManager    library.TxManager
}

// provideStorage 按server.storage选择存储后端
// 启用Redis时图书仓储外面包一层缓存
func provideStorage(cfg *config.Config, log *zap.Logger) (*storage, func(), error) {
	var s *storage
	cleanup := func() {}

	switch cfg.Server.Storage {
	case "mysql":
		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		s = &storage{
			Books:        mysql.NewBookRepository(db),
			Members:      mysql.NewMemberRepository(db),
			Transactions: mysql.NewTransactionRepository(db),
			TxManager:    mysql.NewTxManager(db),
		}
		cleanup = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	default:
		db := memory.NewSeededDB()
		log.Info("使用内存种子数据", zap.String("storage", cfg.Server.Storage))
		s = &storage{
			Books:        memory.NewBookRepository(db),
			Members:      memory.NewMemberRepository(db),
			Transactions: memory.NewTransactionRepository(db),
			TxManager:    memory.NewTxManager(db),
		}
	}

	if !cfg.Redis.Enabled {
		return s, cleanup, nil
	}
	client, err := redis.Connect(context.Background(), cfg.Redis, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	s.Books = redis.NewCachedBookRepository(s.Books, client, cfg.Redis.BookTTL, log)
	dbCleanup := cleanup
	return s, func() {
		_ = client.Close()
		dbCleanup()
	}, nil
}

// provideEvents 启用MQ时发布借阅事件,否则返回nil(不发布)
func provideEvents(cfg *config.Config, log *zap.Logger) (library.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// providePolicy 从配置读取借阅规则
func providePolicy(cfg *config.Config) (transaction.Policy, error) {
	fine, err := cfg.Library.DailyFineAmount()
	if err != nil {
		return transaction.Policy{}, fmt.Errorf("library.daily_fine格式错误: %w", err)
	}
	return transaction.Policy{
		LoanPeriod: cfg.Library.LoanPeriod(),
		DailyFine:  fine,
	}, nil
}

func provideService(s *storage, policy transaction.Policy, events library.EventPublisher, log *zap.Logger) *library.Service {
	return library.NewService(
		s.Books,
		s.Members,
		s.Transactions,
		s.TxManager,
		policy,
		library.SystemClock(),
		library.ULIDGenerator(),
		events,
		log,
	)
}

// provideServer 组装HTTP服务
func provideServer(cfg *config.Config, log *zap.Logger, svc *library.Service) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.New(cfg, log, router.NewHandlers(svc)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
