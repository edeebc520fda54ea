package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}

// likePattern 构造LIKE模糊匹配参数，转义通配符
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制,Repository的所有方法都必须通过它拿DB才能参与事务
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// dbError 包装数据库错误,原始错误只记录日志不返回给客户端
func dbError(err error, message string) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}
