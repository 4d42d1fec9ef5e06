package domain

type PriceTier struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Menu is a sellable item with up to three tiered prices.
type Menu struct {
	ID           string      `json:"id"`
	FastFoodID   string      `json:"fastFoodId"`
	Title        string      `json:"title"`
	Prices       []PriceTier `json:"prices"`
	Image        string      `json:"image,omitempty"`
	Availability string      `json:"availability"`
}

func (m Menu) Available() bool {
	return NormalizeAvailability(m.Availability) == Available
}

// BasePrice is the first tier, the one cart building defaults to.
func (m Menu) BasePrice() float64 {
	if len(m.Prices) == 0 {
		return 0
	}
	return m.Prices[0].Amount
}
