package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		Type:     Expense,
		Category: "Food",
		Amount:   decimal.NewFromInt(10),
		Date:     NewDate(2026, 8, 30),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"unknown type", func(d *Draft) { d.Type = "transfer" }, ErrInvalidType},
		{"empty type", func(d *Draft) { d.Type = "" }, ErrInvalidType},
		{"empty category", func(d *Draft) { d.Category = "   " }, ErrEmptyCategory},
		{"zero amount", func(d *Draft) { d.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(d *Draft) { d.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"zero date", func(d *Draft) { d.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		d := valid
		tc.mutate(&d)
		if err := d.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTransactionValidateRequiresID(t *testing.T) {
	tx := Transaction{
		Type:     Income,
		Category: "Salary",
		Amount:   decimal.NewFromInt(100),
		Date:     NewDate(2026, 1, 15),
	}
	if err := tx.Validate(); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	tx.ID = "abc"
	if err := tx.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2026-02-28" {
		t.Fatalf("round trip got %s", d)
	}
	for _, in := range []string{"", "2026-13-01", "28/02/2026", "2026-02-30", "not a date"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	a := NewDate(2026, 2, 28)
	b := NewDate(2026, 3, 2)
	if got := DaysBetween(a, b); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
	if next := a.Next(); next.String() != "2026-03-01" {
		t.Fatalf("Next = %s", next)
	}
	if !a.SameDay(NewDate(2026, 2, 28)) || a.SameDay(b) {
		t.Fatalf("SameDay misbehaved")
	}
}

func TestTransactionJSONShape(t *testing.T) {
	desc := "groceries"
	tx := Transaction{
		ID:          "id-1",
		Type:        Expense,
		Category:    "Food",
		Amount:      decimal.RequireFromString("12.34"),
		Date:        NewDate(2026, 8, 30),
		Description: &desc,
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	// Amount is a JSON number, date a plain day string.
	if !strings.Contains(s, `"amount":12.34`) {
		t.Fatalf("amount not a bare number: %s", s)
	}
	if !strings.Contains(s, `"date":"2026-08-30"`) {
		t.Fatalf("date not day-formatted: %s", s)
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != tx.ID || !back.Amount.Equal(tx.Amount) || !back.Date.SameDay(tx.Date) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Description == nil || *back.Description != desc {
		t.Fatalf("description lost: %+v", back.Description)
	}
}

func TestTransactionJSONOmitsNilDescription(t *testing.T) {
	tx := Transaction{
		ID:       "id-2",
		Type:     Income,
		Category: "Salary",
		Amount:   decimal.NewFromInt(5000),
		Date:     NewDate(2026, 8, 1),
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "description") {
		t.Fatalf("nil description should be omitted: %s", data)
	}
}

func TestTrimDescription(t *testing.T) {
	if got := TrimDescription("  hi  "); got == nil || *got != "hi" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
	if got := TrimDescription("   "); got != nil {
		t.Fatalf("blank input should yield nil, got %q", *got)
	}
}

func TestCategoriesFor(t *testing.T) {
	income := CategoriesFor(Income)
	expense := CategoriesFor(Expense)
	if len(income) == 0 || len(expense) == 0 {
		t.Fatalf("category lists must not be empty")
	}
	if CategoriesFor("transfer") != nil {
		t.Fatalf("unknown type should yield nil")
	}
	// Returned slices are copies; mutating one must not leak.
	income[0] = "mutated"
	if CategoriesFor(Income)[0] == "mutated" {
		t.Fatalf("CategoriesFor leaked internal slice")
	}
}
