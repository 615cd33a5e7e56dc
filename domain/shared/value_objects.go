package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale 金额保留的小数位数
const MoneyScale = 2

// Money 值对象 - 表示金额
// 使用十进制定点数存储，避免浮点误差；单一币种，不携带货币代码
type Money struct {
	amount decimal.Decimal
}

// NewMoney 创建新的Money值对象，按 MoneyScale 四舍五入
// 存储层读回的 decimal 列也经过这里，保证内存中的金额与展示、落库一致
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(MoneyScale)}
}

// ZeroMoney 返回金额为零的Money
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// ParseMoney 从字符串解析金额，例如 "45.90"
func ParseMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", value, err)
	}
	// 不做静默舍入："1.005" 直接拒绝
	if !d.Equal(d.Round(MoneyScale)) {
		return Money{}, fmt.Errorf("invalid money amount %q: at most %d decimal places allowed", value, MoneyScale)
	}
	return Money{amount: d}, nil
}

// MustParseMoney 解析金额，失败时 panic（仅用于常量和测试数据）
func MustParseMoney(value string) Money {
	m, err := ParseMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount 获取金额数量
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract 金额相减，返回新的Money值对象
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Multiply 金额乘以数量
func (m Money) Multiply(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// IsNegative 金额是否为负
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive 金额是否为正
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsGreaterThan 比较金额是否大于另一个金额
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equals 比较两个Money值对象是否相等（按数值，不区分小数位表示）
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String 以两位小数输出
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
