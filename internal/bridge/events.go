package bridge

import (
	"encoding/json"
	"time"
)

// Event names, kept wire-exact with the upstream channel.
const (
	EventNewUserOrder              = "newUserOrder"
	EventNewUserOrders             = "newUserOrders"
	EventUserOrderUpdated          = "userOrderUpdated"
	EventNewFastFoodOrder          = "newFastFoodOrder"
	EventNewFastFoodOrders         = "newFastFoodOrders"
	EventFastFoodOrderUpdated      = "fastFoodOrderUpdated"
	EventNewTransaction            = "newTransaction"
	EventIsRead                    = "isRead"
	EventNewNotification           = "newNotification"
	EventNewPeriodKeyDelivering    = "newPeriodKeyDelivering"
	EventRemovePeriodKeyDelivering = "removePeriodKeyDelivering"

	// Session announce, published by the client when the bridge starts.
	EventJoinedRoom = "joinedRoom"
)

// Envelope carries an event. The payload is advisory only: it is never
// merged into local state, every event means "something changed, refetch".
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	UserID     string          `json:"userId,omitempty"`
	FastFoodID string          `json:"fastFoodId,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// PeriodKeyPayload is the one payload the bridge does read: the delivery
// period marker key. It still triggers a refetch like everything else.
type PeriodKeyPayload struct {
	PeriodKey string `json:"periodKey"`
}
