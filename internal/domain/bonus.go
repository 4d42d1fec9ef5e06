package domain

// Bonus is a loyalty reward, eligible after MinPaidOrders paid orders.
// MinPaidOrders == 0 means the welcome bonus, granted unconditionally.
type Bonus struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	MinPaidOrders int     `json:"minPaidOrders"`
	Amount        float64 `json:"amount"`
}

type BonusRequest struct {
	UserID  string `json:"userId"`
	BonusID string `json:"bonusId"`
}
