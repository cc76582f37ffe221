package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits a stored amount may carry.
// It matches the NUMERIC(36, 8) balance column and satoshi precision.
const MoneyScale int32 = 8

// Money is an exact, sign-aware decimal quantity. It never passes through float64.
// The zero value is a valid zero amount.
type Money struct {
	value decimal.Decimal
}

// MoneyIntegerDigits is the number of integer digits NUMERIC(36, 8) leaves room for.
const MoneyIntegerDigits = 28

// maxMoneyLength bounds the raw input before it reaches the decimal parser.
const maxMoneyLength = 64

// ZeroMoney is the zero amount.
var ZeroMoney = Money{}

// moneyLimit is the smallest magnitude that no longer fits the balance column.
var moneyLimit = decimal.New(1, MoneyIntegerDigits)

// ParseMoney parses a plain decimal string such as "100", "-0.1" or "1.55".
// It fails with ErrInvalidAmount on malformed input, exponent notation, more than
// MoneyScale fractional digits, or more than MoneyIntegerDigits integer digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: amount is empty", apperrors.ErrInvalidAmount)
	}
	if len(s) > maxMoneyLength {
		return Money{}, fmt.Errorf("%w: amount is longer than %d characters", apperrors.ErrInvalidAmount, maxMoneyLength)
	}
	if strings.ContainsAny(s, "eE") {
		return Money{}, fmt.Errorf("%w: %q uses exponent notation", apperrors.ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a decimal number", apperrors.ErrInvalidAmount, s)
	}
	if d.Exponent() < -MoneyScale && !d.Equal(d.Truncate(MoneyScale)) {
		return Money{}, fmt.Errorf("%w: %q has more than %d fractional digits", apperrors.ErrInvalidAmount, s, MoneyScale)
	}
	m := Money{value: d}
	if !m.fits() {
		return Money{}, fmt.Errorf("%w: %q has more than %d integer digits", apperrors.ErrInvalidAmount, s, MoneyIntegerDigits)
	}
	return m, nil
}

// fits reports whether m can be stored in the balance column.
func (m Money) fits() bool {
	return m.value.Abs().LessThan(moneyLimit)
}

// MustParseMoney is ParseMoney for literals known to be valid. It panics otherwise.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromDecimal converts a decimal read from storage, truncating beyond MoneyScale.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{value: d.Truncate(MoneyScale)}
}

// Decimal exposes the underlying value for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Subtract returns m - other. It never clamps; callers check sufficiency first.
func (m Money) Subtract(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// Multiply converts m by rate. The product is truncated toward zero at MoneyScale,
// so a conversion never credits more than the rate implies.
func (m Money) Multiply(rate Rate) Money {
	q, _ := m.value.Mul(rate.value).QuoRem(rate.denominator(), MoneyScale)
	return Money{value: q}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{value: m.value.Neg()}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	return Money{value: m.value.Abs()}
}

// Cmp returns -1, 0 or +1 as m is less than, equal to, or greater than other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

func (m Money) Equal(other Money) bool       { return m.value.Equal(other.value) }
func (m Money) LessThan(other Money) bool    { return m.value.LessThan(other.value) }
func (m Money) GreaterThan(other Money) bool { return m.value.GreaterThan(other.value) }

func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsZero() bool     { return m.value.IsZero() }

// String renders the canonical decimal form, e.g. "-100" or "1.55".
// ParseMoney(m.String()) is equal to m.
func (m Money) String() string {
	return m.value.String()
}

// MarshalJSON encodes Money as a JSON string to keep full precision.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value.String())
}

// UnmarshalJSON accepts a JSON string or a JSON number. null leaves m unchanged.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %s is not a JSON string", apperrors.ErrInvalidAmount, data)
		}
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so Money can be bound as a NUMERIC parameter.
func (m Money) Value() (driver.Value, error) {
	return m.value.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	m.value = d
	return nil
}

// Rate is a strictly positive conversion factor between two currencies.
// Unlike Money it keeps whatever precision the quote source provides. Inverted
// and composed rates are kept as an exact quotient value/divisor.
type Rate struct {
	value   decimal.Decimal
	divisor decimal.Decimal // zero means 1
}

var one = decimal.NewFromInt(1)

// NewRate validates that d is positive.
func NewRate(d decimal.Decimal) (Rate, error) {
	if !d.IsPositive() {
		return Rate{}, fmt.Errorf("%w: rate %s is not positive", apperrors.ErrRateUnavailable, d.String())
	}
	return Rate{value: d}, nil
}

// ParseRate parses a positive decimal rate, or an exact quotient "value/divisor"
// as produced by Rate.Exact.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		value, err := ParseRate(num)
		if err != nil {
			return Rate{}, err
		}
		divisor, err := ParseRate(den)
		if err != nil {
			return Rate{}, err
		}
		return value.Times(divisor.Inverse()), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: malformed rate %q", apperrors.ErrRateUnavailable, s)
	}
	return NewRate(d)
}

// MustParseRate is ParseRate for literals known to be valid.
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) denominator() decimal.Decimal {
	if r.divisor.IsZero() {
		return one
	}
	return r.divisor
}

// Times composes two rates: (a->b) times (b->c) is (a->c).
func (r Rate) Times(other Rate) Rate {
	if r.divisor.IsZero() && other.divisor.IsZero() {
		return Rate{value: r.value.Mul(other.value)}
	}
	return Rate{value: r.value.Mul(other.value), divisor: r.denominator().Mul(other.denominator())}
}

// Inverse returns the rate in the opposite direction without rounding.
func (r Rate) Inverse() Rate {
	if !r.IsValid() {
		return Rate{}
	}
	if r.divisor.IsZero() {
		return Rate{value: one, divisor: r.value}
	}
	return Rate{value: r.divisor, divisor: r.value}
}

// Decimal returns the rate as a single decimal. Quotients are rounded to 16 places,
// so it is for display only; conversions go through Money.Multiply.
func (r Rate) Decimal() decimal.Decimal {
	if r.divisor.IsZero() {
		return r.value
	}
	return r.value.Div(r.divisor)
}

func (r Rate) String() string { return r.Decimal().String() }

// Exact renders the rate without rounding. ParseRate(r.Exact()) equals r.
func (r Rate) Exact() string {
	if r.divisor.IsZero() {
		return r.value.String()
	}
	return r.value.String() + "/" + r.divisor.String()
}

// IsValid reports whether r was built through a constructor.
func (r Rate) IsValid() bool {
	return r.value.IsPositive() && (r.divisor.IsZero() || r.divisor.IsPositive())
}
