package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Alert severities, matching the weight of the rule that fired.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// Rule identifiers, in evaluation order.
const (
	RuleNegativeBalance    = "negative_balance"
	RuleHighRecentSpending = "high_recent_spending"
	RuleHealthyFinances    = "healthy_finances"
	RuleEmptyLedger        = "empty_ledger"
)

type (
	Severity string

	// Alert is one fired rule with the amount that triggered it.
	Alert struct {
		Rule     string          `json:"rule"`
		Severity Severity        `json:"severity"`
		Title    string          `json:"title"`
		Detail   string          `json:"detail"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// Policy holds the alert thresholds. These are business policy, kept
	// out of the evaluation logic so they can be tuned via configuration.
	Policy struct {
		// RecentWindowDays is the trailing window for the spending rule.
		RecentWindowDays int
		// RecentSpendRatio: recent expenses above this share of total
		// income trigger the spending warning.
		RecentSpendRatio decimal.Decimal
		// HealthyExpenseRatio: total expenses below this share of total
		// income count as healthy.
		HealthyExpenseRatio decimal.Decimal
	}
)

// DefaultPolicy returns the stock thresholds: a 7-day window, warn when
// recent spending exceeds 30% of income, healthy below 70%.
func DefaultPolicy() Policy {
	return Policy{
		RecentWindowDays:    7,
		RecentSpendRatio:    decimal.NewFromFloat(0.3),
		HealthyExpenseRatio: decimal.NewFromFloat(0.7),
	}
}

// EvaluateAlerts runs the fixed rule set against the collection. The rules
// are independent predicates: any subset may fire, and the result keeps
// the rule order regardless of which fired.
func EvaluateAlerts(txs []core.Transaction, now time.Time, p Policy) []Alert {
	sum := Totals(txs)

	// The window is measured from the evaluation instant, not a calendar
	// day, so a record dated exactly RecentWindowDays ago (midnight) is
	// already outside it for any later evaluation time.
	cutoff := now.AddDate(0, 0, -p.RecentWindowDays)
	recentExpenses := decimal.Zero
	for _, tx := range txs {
		if tx.Type == core.Expense && !tx.Date.Time.Before(cutoff) {
			recentExpenses = recentExpenses.Add(tx.Amount)
		}
	}

	var alerts []Alert

	if sum.Balance.Sign() < 0 {
		deficit := sum.Balance.Abs()
		alerts = append(alerts, Alert{
			Rule:     RuleNegativeBalance,
			Severity: SeverityError,
			Title:    "Negative balance",
			Detail:   fmt.Sprintf("Expenses exceed income by %s. Review your spending.", deficit),
			Amount:   deficit,
		})
	}

	if sum.Income.Sign() > 0 && recentExpenses.GreaterThan(sum.Income.Mul(p.RecentSpendRatio)) {
		alerts = append(alerts, Alert{
			Rule:     RuleHighRecentSpending,
			Severity: SeverityWarning,
			Title:    "High recent spending",
			Detail:   fmt.Sprintf("You spent %s in the last %d days. Consider cutting back.", recentExpenses, p.RecentWindowDays),
			Amount:   recentExpenses,
		})
	}

	if sum.Balance.Sign() > 0 && sum.Income.Sign() > 0 &&
		sum.Expense.LessThan(sum.Income.Mul(p.HealthyExpenseRatio)) {
		alerts = append(alerts, Alert{
			Rule:     RuleHealthyFinances,
			Severity: SeveritySuccess,
			Title:    "Healthy finances",
			Detail:   fmt.Sprintf("You are keeping a positive balance of %s.", sum.Balance),
			Amount:   sum.Balance,
		})
	}

	if len(txs) == 0 {
		alerts = append(alerts, Alert{
			Rule:     RuleEmptyLedger,
			Severity: SeverityInfo,
			Title:    "Start recording",
			Detail:   "Add your first transactions to start tracking your finances.",
			Amount:   decimal.Zero,
		})
	}

	return alerts
}
