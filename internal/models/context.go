package models

import "time"

type TransactionType string

const (
	TransactionPayment    TransactionType = "payment"
	TransactionSend       TransactionType = "send"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionDeposit    TransactionType = "deposit"
	TransactionOther      TransactionType = "other"
)

// Transaction is a single entry in the user's history, used only for
// read-side analysis.
type Transaction struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type Bill struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Paid     bool    `json:"is_paid"`
}

type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Goal struct {
	Name   string  `json:"name"`
	Target float64 `json:"target"`
}

// FinancialContext is the caller-supplied snapshot of a user's financial
// state for one request. RecentTransactions are ordered most-recent-first.
// The snapshot is never mutated by the service.
type FinancialContext struct {
	Balance            float64       `json:"balance"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	UnpaidBills        []Bill        `json:"unpaid_bills"`
	Contacts           []Contact     `json:"contacts"`
	Cashback           float64       `json:"cashback"`
	SavingsGoals       []Goal        `json:"savings_goals"`
}
