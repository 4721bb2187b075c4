package core

// Category suggestion lists per transaction type. These feed input
// suggestions only; stored records may carry any non-empty string, so a
// record stays valid even if the lists change later.
var (
	IncomeCategories = []string{
		"Salary",
		"Freelance",
		"Investment",
		"Business",
		"Gift",
		"Other Income",
	}

	ExpenseCategories = []string{
		"Groceries",
		"Rent",
		"Utilities",
		"Transportation",
		"Entertainment",
		"Healthcare",
		"Shopping",
		"Dining",
		"Education",
		"Other Expense",
	}
)

// CategoriesFor returns a copy of the suggestion list for the given type,
// or nil for an unknown type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Income:
		return append([]string(nil), IncomeCategories...)
	case Expense:
		return append([]string(nil), ExpenseCategories...)
	default:
		return nil
	}
}
