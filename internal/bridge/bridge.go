package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	kafkax "github.com/Tchindavaldo/yaammoo-core/internal/kafka"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Refresher re-fetches one accessor's data. Refreshers must be idempotent
// and safe to call concurrently or repeatedly.
type Refresher func(ctx context.Context) error

type Deduper interface {
	SeenEvent(ctx context.Context, eventID string) (bool, error)
	ForgetEvent(ctx context.Context, eventID string) error
}

type Producer interface {
	Publish(key, value []byte, headers ...kafka.Header)
}

// Bridge translates server push events into local refetch calls for one
// session. It never patches state from event payloads; the only local state
// it keeps is the delivery period key set.
type Bridge struct {
	UserID     string
	FastFoodID string
	Service    string
	Dedup      Deduper // optional

	UserOrders     Refresher
	MerchantOrders Refresher
	Transactions   Refresher
	Notifications  Refresher

	mu      sync.Mutex
	periods map[string]struct{}
}

// Handle is the kafka consumer handler: decode, scope, dedup, dispatch.
func (b *Bridge) Handle(ctx context.Context, m kafka.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// Never fail the consumer loop on a malformed event.
		log.Printf("bridge: bad envelope: %v", err)
		return nil
	}

	if !b.scoped(env) || env.EventType == EventJoinedRoom {
		return nil
	}

	marked := false
	if b.Dedup != nil && env.EventID != "" {
		seen, err := b.Dedup.SeenEvent(ctx, env.EventID)
		if err != nil {
			log.Printf("bridge: dedup %s: %v", env.EventID, err)
		} else if seen {
			return nil
		} else {
			marked = true
		}
	}

	if err := b.dispatch(ctx, env); err != nil {
		// Unmark so the redelivery is not swallowed as a duplicate.
		if marked {
			if derr := b.Dedup.ForgetEvent(ctx, env.EventID); derr != nil {
				log.Printf("bridge: unmark %s: %v", env.EventID, derr)
			}
		}
		return err
	}
	return nil
}

func (b *Bridge) dispatch(ctx context.Context, env Envelope) error {
	switch env.EventType {
	case EventNewUserOrder, EventNewUserOrders, EventUserOrderUpdated:
		return call(ctx, b.UserOrders)
	case EventNewFastFoodOrder, EventNewFastFoodOrders, EventFastFoodOrderUpdated:
		return call(ctx, b.MerchantOrders)
	case EventNewTransaction:
		return call(ctx, b.Transactions)
	case EventIsRead, EventNewNotification:
		return call(ctx, b.Notifications)
	case EventNewPeriodKeyDelivering:
		b.setPeriod(env.Payload, true)
		return call(ctx, b.UserOrders)
	case EventRemovePeriodKeyDelivering:
		b.setPeriod(env.Payload, false)
		return call(ctx, b.UserOrders)
	default:
		return nil
	}
}

// scoped reports whether the event belongs to this session. Events without
// any scope are broadcasts.
func (b *Bridge) scoped(env Envelope) bool {
	if env.UserID == "" && env.FastFoodID == "" {
		return true
	}
	if env.UserID != "" && env.UserID == b.UserID {
		return true
	}
	return env.FastFoodID != "" && env.FastFoodID == b.FastFoodID
}

func call(ctx context.Context, r Refresher) error {
	if r == nil {
		return nil
	}
	if err := r(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

func (b *Bridge) setPeriod(payload json.RawMessage, active bool) {
	var p PeriodKeyPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.PeriodKey == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.periods == nil {
		b.periods = make(map[string]struct{})
	}
	if active {
		b.periods[p.PeriodKey] = struct{}{}
	} else {
		delete(b.periods, p.PeriodKey)
	}
}

// DeliveryPeriods returns the currently active delivery period keys.
func (b *Bridge) DeliveryPeriods() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.periods))
	for k := range b.periods {
		out = append(out, k)
	}
	return out
}

// Announce publishes the session-join event, the analog of joining the
// server-side room keyed by user id.
func (b *Bridge) Announce(p Producer) {
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  EventJoinedRoom,
		UserID:     b.UserID,
		FastFoodID: b.FastFoodID,
		OccurredAt: time.Now().UTC(),
		Producer:   b.Service,
	}
	p.Publish([]byte(b.UserID), kafkax.MustMarshal(env))
}
