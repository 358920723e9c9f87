package enums

import "fmt"

// ExpenseStatus tracks an expense request through its approval flow.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

var validExpenseStatuses = []ExpenseStatus{
	ExpenseStatusPending,
	ExpenseStatusApproved,
	ExpenseStatusRejected,
}

// String implements fmt.Stringer.
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ExpenseStatus.
func (s ExpenseStatus) IsValid() bool {
	for _, candidate := range validExpenseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// ParseExpenseStatus converts raw input into an ExpenseStatus.
func ParseExpenseStatus(value string) (ExpenseStatus, error) {
	for _, candidate := range validExpenseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense status %q", value)
}
