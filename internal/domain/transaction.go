package domain

import "time"

type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Transaction is a wallet ledger entry. The balance is always derived from
// the ledger, never stored as a running total.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Amount    float64         `json:"amount"`
	Name      string          `json:"name"`
	Channel   string          `json:"channel,omitempty"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}
