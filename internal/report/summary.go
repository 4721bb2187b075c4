// Package report derives summary data from a transaction collection. All
// functions are pure: they read a snapshot and keep no state of their own,
// so they are safe to call on every render.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Summary holds the type totals and their difference.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DayTotals carries the income and expense sums for one calendar day.
type DayTotals struct {
	Day     core.Date       `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Totals sums amounts per type. Balance is income minus expense; the empty
// collection yields all zeros.
func Totals(txs []core.Transaction) Summary {
	sum := Summary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			sum.Income = sum.Income.Add(tx.Amount)
		case core.Expense:
			sum.Expense = sum.Expense.Add(tx.Amount)
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)
	return sum
}

// CategoryBreakdown groups amounts of one type by category, in first-seen
// order. An empty result means there is nothing of that type to show.
func CategoryBreakdown(txs []core.Transaction, t core.TransactionType) []CategoryTotal {
	var out []CategoryTotal
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		if i, ok := index[tx.Category]; ok {
			out[i].Total = out[i].Total.Add(tx.Amount)
			continue
		}
		index[tx.Category] = len(out)
		out = append(out, CategoryTotal{Category: tx.Category, Total: tx.Amount})
	}
	return out
}

// DailySeries buckets amounts by calendar day over [start, end] inclusive.
// Every day in the range gets an entry, zero-filled when nothing happened,
// so the result always has DaysBetween(start, end)+1 entries in ascending
// order. An inverted range yields nil.
func DailySeries(txs []core.Transaction, start, end core.Date) []DayTotals {
	if end.Before(start.Time) {
		return nil
	}
	out := make([]DayTotals, 0, core.DaysBetween(start, end)+1)
	for day := start; !day.After(end.Time); day = day.Next() {
		totals := DayTotals{
			Day:     day,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, tx := range txs {
			if !tx.Date.SameDay(day) {
				continue
			}
			switch tx.Type {
			case core.Income:
				totals.Income = totals.Income.Add(tx.Amount)
			case core.Expense:
				totals.Expense = totals.Expense.Add(tx.Amount)
			}
		}
		out = append(out, totals)
	}
	return out
}

// SortedByDateDesc returns a copy ordered most recent day first. The sort
// is stable so records on the same day keep their insertion order.
func SortedByDateDesc(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date.Time)
	})
	return out
}

// FilterByType returns the records of one type, preserving order.
func FilterByType(txs []core.Transaction, t core.TransactionType) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}
