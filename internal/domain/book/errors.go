package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNoCopiesAvailable 没有可借副本
	ErrNoCopiesAvailable = apperrors.New(apperrors.ErrCodeNoCopiesAvailable, "该图书没有可借副本")

	// ErrAvailabilityOverflow 可借数量将超过馆藏总数(数据不一致)
	ErrAvailabilityOverflow = apperrors.New(apperrors.ErrCodeInventoryInconsistent, "可借数量超过馆藏总数")

	// ErrTotalBelowOnLoan 馆藏总数不能小于已借出数量
	ErrTotalBelowOnLoan = apperrors.ErrInvalidParams.WithDetail("馆藏总数不能小于已借出数量")

	// ErrHasActiveLoans 存在未归还的借阅,不能删除
	ErrHasActiveLoans = apperrors.New(apperrors.ErrCodeHasActiveLoans, "该图书还有未归还的借阅,不能删除")
)
