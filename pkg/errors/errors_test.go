package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Is(t *testing.T) {
	sentinel := New(ErrCodeBookNotFound, "图书不存在")

	// 从HTTP响应还原的错误与哨兵错误不是同一个指针
	decoded := New(ErrCodeBookNotFound, "图书不存在")
	assert.True(t, errors.Is(decoded, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", decoded), sentinel))
	assert.False(t, errors.Is(New(ErrCodeMemberNotFound, "会员不存在"), sentinel))
	assert.False(t, errors.Is(errors.New("plain"), sentinel))
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, "查询失败")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "[50000] 查询失败: connection reset", err.Error())

	db := &AppError{Code: ErrCodeDatabaseError, Message: "更新图书失败", Err: cause}
	assert.ErrorIs(t, db, ErrDatabaseError)
}

func TestWithDetail(t *testing.T) {
	err := ErrInvalidParams.WithDetail("email不是合法的邮箱地址")

	assert.Equal(t, "参数错误: email不是合法的邮箱地址", err.Message)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Equal(t, "参数错误", ErrInvalidParams.Message, "不能修改原错误")
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("ctx: %w", ErrBindError))
	assert.Equal(t, ErrCodeBindError, appErr.Code)

	internal := GetAppError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.True(t, IsAppError(internal))
	assert.False(t, IsAppError(errors.New("boom")))
}

func TestTransportError(t *testing.T) {
	err := NewTransportError(errors.New("dial tcp: connection refused"))

	assert.True(t, IsTransportError(err))
	assert.True(t, IsTransportError(fmt.Errorf("list books: %w", err)))
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, IsTransportError(ErrInternal))
	assert.False(t, IsTransportError(errors.New("x")))
}
