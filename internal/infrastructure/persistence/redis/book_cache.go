package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

const (
	bookKeyPrefix  = "library:book:"
	cacheName      = "book"
	DefaultBookTTL = 5 * time.Minute
)

// CachedBookRepository 图书仓储的Cache-Aside装饰器
// 设计说明:
// 1. 只缓存FindByID,列表和加锁读取直接走底层仓储
// 2. 所有写操作先写底层仓储,成功后删除缓存
// 3. Redis故障只记录日志,不影响业务(降级为直接读库)
type CachedBookRepository struct {
	book.Repository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCachedBookRepository 用Redis包装图书仓储
func NewCachedBookRepository(next book.Repository, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedBookRepository {
	if ttl <= 0 {
		ttl = DefaultBookTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedBookRepository{Repository: next, client: client, ttl: ttl, log: log}
}

func bookKey(id string) string {
	return bookKeyPrefix + id
}

// FindByID 先查缓存,未命中再查库并回填
func (r *CachedBookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	data, err := r.client.Get(ctx, bookKey(id)).Bytes()
	switch {
	case err == nil:
		var b book.Book
		if jsonErr := json.Unmarshal(data, &b); jsonErr == nil {
			metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": cacheName, "result": "hit"})
			return &b, nil
		}
		r.log.Warn("缓存数据无法解析", zap.String("book_id", id))
	case errors.Is(err, redis.Nil):
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": cacheName, "result": "miss"})
	default:
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"cache": cacheName, "result": "error"})
		r.log.Warn("读取图书缓存失败", zap.String("book_id", id), zap.Error(err))
	}

	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		if err := r.client.Set(ctx, bookKey(id), data, r.ttl).Err(); err != nil {
			r.log.Warn("写入图书缓存失败", zap.String("book_id", id), zap.Error(err))
		}
	}
	return b, nil
}

func (r *CachedBookRepository) Update(ctx context.Context, b *book.Book) error {
	if err := r.Repository.Update(ctx, b); err != nil {
		return err
	}
	r.invalidate(ctx, b.ID)
	return nil
}

func (r *CachedBookRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedBookRepository) AdjustAvailability(ctx context.Context, id string, delta int) error {
	if err := r.Repository.AdjustAvailability(ctx, id, delta); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate 删除缓存
// 事务内删除后、提交前可能被并发读回填旧值,TTL兜底
func (r *CachedBookRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(context.WithoutCancel(ctx), bookKey(id)).Err(); err != nil {
		r.log.Warn("删除图书缓存失败", zap.String("book_id", id), zap.Error(err))
	}
}
