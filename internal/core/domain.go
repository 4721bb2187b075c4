package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType discriminates the two transaction variants.
	TransactionType string

	// Date is a calendar date with day granularity. The embedded time is
	// always midnight UTC so day comparisons are plain time comparisons.
	Date struct {
		time.Time
	}

	// Transaction is a single ledger record. The amount is a positive
	// magnitude; its sign is implied by Type. Description nil means the
	// field was not provided, which is distinct from an empty string.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
		Description *string         `json:"description,omitempty"`
	}

	// Draft carries a transaction's field values before an id is assigned.
	Draft struct {
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Date        Date
		Description *string
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyID       = errors.New("empty transaction id")
)

// Valid reports whether t is one of the two known variants.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.YearDay() == o.YearDay()
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b Date) int {
	return int(b.Sub(a.Time) / (24 * time.Hour))
}

// TrimDescription normalizes free-text input: surrounding whitespace is
// dropped and an empty result becomes nil, meaning not provided.
func TrimDescription(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if d.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return d.Date.Validate()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	return t.Draft().Validate()
}

// Draft returns the transaction's field values without the id.
func (t Transaction) Draft() Draft {
	return Draft{
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
	}
}
