package member

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 会员领域错误定义
var (
	// ErrMemberNotFound 会员不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "会员不存在")

	// ErrMemberInactive 会员未激活,不能借书
	ErrMemberInactive = apperrors.New(apperrors.ErrCodeMemberInactive, "会员未激活,不能借书")

	// ErrHasActiveLoans 存在未归还的借阅,不能删除
	ErrHasActiveLoans = apperrors.New(apperrors.ErrCodeHasActiveLoans, "该会员还有未归还的图书,不能删除")
)
