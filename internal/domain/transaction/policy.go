package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLoanPeriod 默认借阅期限14天
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Policy 借阅规则(借阅期限、每日罚金)
type Policy struct {
	LoanPeriod time.Duration
	DailyFine  decimal.Decimal
}

// DefaultPolicy 14天借期,每天罚款50
func DefaultPolicy() Policy {
	return Policy{
		LoanPeriod: DefaultLoanPeriod,
		DailyFine:  decimal.NewFromInt(50),
	}
}

// LateDays 逾期天数: max(0, floor((at - due) / 24h))
// 不足一整天不计
func LateDays(due, at time.Time) int64 {
	if !at.After(due) {
		return 0
	}
	return int64(at.Sub(due) / (24 * time.Hour))
}

// ComputeFine 计算罚款 = 逾期天数 * 每日罚金
func (p Policy) ComputeFine(due, at time.Time) decimal.Decimal {
	days := LateDays(due, at)
	if days == 0 {
		return decimal.Zero
	}
	return p.DailyFine.Mul(decimal.NewFromInt(days))
}
