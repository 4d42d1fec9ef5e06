package domain

type DeliveryType string

const (
	DeliveryExpress  DeliveryType = "express"
	DeliveryStandard DeliveryType = "standard"
	DeliveryNone     DeliveryType = "none"
)

type Packaging struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

type Drink struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// NoDrink is the sentinel used when the customer picked no drink.
func NoDrink() Drink { return Drink{Name: "none", Price: 0} }

type Delivery struct {
	Requested bool         `json:"requested"`
	Price     float64      `json:"price"`
	Type      DeliveryType `json:"type"`
	Hour      string       `json:"hour,omitempty"`
	Date      string       `json:"date,omitempty"`
	Address   string       `json:"address,omitempty"`
}

// Order is one cart line item or purchased item ("commande"). The menu is a
// snapshot taken when the order was built, not a live reference.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	FastFoodID string      `json:"fastFoodId"`
	Menu       Menu        `json:"menu"`
	Quantity   int         `json:"quantity"`
	Packagings []Packaging `json:"packagings,omitempty"`
	Drink      Drink       `json:"drink"`
	Delivery   Delivery    `json:"delivery"`
	// TotalPrice is computed once at order-build time and never re-derived
	// from the menu/options afterwards.
	TotalPrice float64 `json:"prixTotal"`
	Status     string  `json:"status"`
	// Legacy flags kept on the wire, superseded by Status.
	IsBuy     bool `json:"isBuy"`
	IsPending bool `json:"ispending"`
}

func (o Order) NormalizedStatus() OrderStatus { return NormalizeStatus(o.Status) }

// ComputeTotal derives the order total at build time: unit price times
// quantity, plus options and the delivery fee when requested.
func ComputeTotal(unitPrice float64, quantity int, packagings []Packaging, drink Drink, delivery Delivery) float64 {
	total := unitPrice * float64(quantity)
	for _, p := range packagings {
		total += p.Price
	}
	total += drink.Price
	if delivery.Requested {
		total += delivery.Price
	}
	return total
}
