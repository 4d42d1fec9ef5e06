package domain

// OrderStatus is the canonical order lifecycle vocabulary. Legacy data carries
// several overlapping spellings; NormalizeStatus folds them all into this enum
// at the accessor boundary so nothing deeper ever sees a raw status string.
type OrderStatus string

const (
	StatusCart      OrderStatus = "pendingToBuy" // client-local, pre-purchase
	StatusPending   OrderStatus = "pending"
	StatusActive    OrderStatus = "active"
	StatusFinished  OrderStatus = "finished"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
	StatusUnknown   OrderStatus = ""
)

var statusAliases = map[string]OrderStatus{
	"pendingToBuy": StatusCart,
	"pending":      StatusPending,
	"active":       StatusActive,
	"processing":   StatusActive,
	"in_progress":  StatusActive,
	"finished":     StatusFinished,
	"delivering":   StatusFinished,
	"completed":    StatusFinished,
	"delivered":    StatusDelivered,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
}

func NormalizeStatus(s string) OrderStatus {
	if st, ok := statusAliases[s]; ok {
		return st
	}
	return StatusUnknown
}

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusCart:      {StatusPending: true},
	StatusPending:   {StatusActive: true, StatusCancelled: true},
	StatusActive:    {StatusFinished: true, StatusCancelled: true},
	StatusFinished:  {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Availability is the canonical menu availability vocabulary. The upstream
// data mixes English and localized strings.
type Availability string

const (
	Available           Availability = "available"
	Unavailable         Availability = "unavailable"
	AvailabilityUnknown Availability = ""
)

var availabilityAliases = map[string]Availability{
	"available":    Available,
	"Disponible":   Available,
	"unavailable":  Unavailable,
	"Indisponible": Unavailable,
}

func NormalizeAvailability(s string) Availability {
	if a, ok := availabilityAliases[s]; ok {
		return a
	}
	return AvailabilityUnknown
}
