package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	calls int
	err   error
}

func (c *counter) refresh(context.Context) error {
	c.calls++
	return c.err
}

type memDedup struct {
	seen map[string]bool
	err  error
}

func (d *memDedup) SeenEvent(_ context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	was := d.seen[id]
	d.seen[id] = true
	return was, nil
}

func (d *memDedup) ForgetEvent(_ context.Context, id string) error {
	if d.err != nil {
		return d.err
	}
	delete(d.seen, id)
	return nil
}

func msg(t *testing.T, env Envelope) kafka.Message {
	t.Helper()
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafka.Message{Value: b, Time: time.Now()}
}

func newBridge() (*Bridge, map[string]*counter) {
	cs := map[string]*counter{
		"user": {}, "merchant": {}, "tx": {}, "notif": {},
	}
	b := &Bridge{
		UserID:         "u1",
		FastFoodID:     "ff1",
		Service:        "test",
		UserOrders:     cs["user"].refresh,
		MerchantOrders: cs["merchant"].refresh,
		Transactions:   cs["tx"].refresh,
		Notifications:  cs["notif"].refresh,
	}
	return b, cs
}

func TestDispatchByEventType(t *testing.T) {
	cases := []struct {
		event string
		want  string
	}{
		{EventNewUserOrder, "user"},
		{EventNewUserOrders, "user"},
		{EventUserOrderUpdated, "user"},
		{EventNewFastFoodOrder, "merchant"},
		{EventNewFastFoodOrders, "merchant"},
		{EventFastFoodOrderUpdated, "merchant"},
		{EventNewTransaction, "tx"},
		{EventIsRead, "notif"},
		{EventNewNotification, "notif"},
	}
	for _, c := range cases {
		b, cs := newBridge()
		err := b.Handle(context.Background(), msg(t, Envelope{
			EventID:   "e-" + c.event,
			EventType: c.event,
			UserID:    "u1",
		}))
		require.NoError(t, err, c.event)
		for name, cnt := range cs {
			want := 0
			if name == c.want {
				want = 1
			}
			assert.Equal(t, want, cnt.calls, "%s should hit only %s", c.event, c.want)
		}
	}
}

func TestScoping(t *testing.T) {
	b, cs := newBridge()
	ctx := context.Background()

	// Someone else's event: ignored.
	require.NoError(t, b.Handle(ctx, msg(t, Envelope{EventType: EventNewUserOrder, UserID: "other"})))
	assert.Zero(t, cs["user"].calls)

	// Matching fastfood scope counts even when the user id differs.
	require.NoError(t, b.Handle(ctx, msg(t, Envelope{EventType: EventNewFastFoodOrder, UserID: "other", FastFoodID: "ff1"})))
	assert.Equal(t, 1, cs["merchant"].calls)

	// No scope at all is a broadcast.
	require.NoError(t, b.Handle(ctx, msg(t, Envelope{EventType: EventNewNotification})))
	assert.Equal(t, 1, cs["notif"].calls)

	// Our own join announce is never dispatched.
	require.NoError(t, b.Handle(ctx, msg(t, Envelope{EventType: EventJoinedRoom, UserID: "u1"})))
	for _, cnt := range cs {
		assert.LessOrEqual(t, cnt.calls, 1)
	}
}

func TestDedupSuppressesRedelivery(t *testing.T) {
	b, cs := newBridge()
	b.Dedup = &memDedup{}
	ctx := context.Background()

	m := msg(t, Envelope{EventID: "e1", EventType: EventNewUserOrder, UserID: "u1"})
	require.NoError(t, b.Handle(ctx, m))
	require.NoError(t, b.Handle(ctx, m))
	assert.Equal(t, 1, cs["user"].calls, "redelivered event must refresh once")

	// Dedup backend failure fails open: the refetch still happens.
	b.Dedup = &memDedup{err: errors.New("redis down")}
	require.NoError(t, b.Handle(ctx, m))
	assert.Equal(t, 2, cs["user"].calls)
}

func TestRefresherErrorPropagates(t *testing.T) {
	b, cs := newBridge()
	cs["user"].err = errors.New("api down")

	err := b.Handle(context.Background(), msg(t, Envelope{EventType: EventNewUserOrder, UserID: "u1"}))
	require.Error(t, err, "failed refresh must fail the handler so the message is redelivered")
}

func TestFailedRefreshIsNotDeduped(t *testing.T) {
	b, cs := newBridge()
	b.Dedup = &memDedup{}
	ctx := context.Background()

	m := msg(t, Envelope{EventID: "e1", EventType: EventNewUserOrder, UserID: "u1"})
	cs["user"].err = errors.New("api down")
	require.Error(t, b.Handle(ctx, m))

	// The API recovers; the redelivered message must refresh again instead of
	// being swallowed as a duplicate.
	cs["user"].err = nil
	require.NoError(t, b.Handle(ctx, m))
	assert.Equal(t, 2, cs["user"].calls)

	// Once handled, further redeliveries are duplicates again.
	require.NoError(t, b.Handle(ctx, m))
	assert.Equal(t, 2, cs["user"].calls)
}

func TestMalformedEnvelopeIsDropped(t *testing.T) {
	b, cs := newBridge()
	err := b.Handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	require.NoError(t, err)
	for _, cnt := range cs {
		assert.Zero(t, cnt.calls)
	}
}

type capturedPublish struct {
	key   []byte
	value []byte
}

func (c *capturedPublish) Publish(key, value []byte, _ ...kafka.Header) {
	c.key = key
	c.value = value
}

func TestAnnounce(t *testing.T) {
	b, _ := newBridge()
	prod := &capturedPublish{}

	b.Announce(prod)

	assert.Equal(t, []byte("u1"), prod.key)
	var env Envelope
	require.NoError(t, json.Unmarshal(prod.value, &env))
	assert.Equal(t, EventJoinedRoom, env.EventType)
	assert.Equal(t, "u1", env.UserID)
	assert.Equal(t, "ff1", env.FastFoodID)
	assert.Equal(t, "test", env.Producer)
	assert.NotEmpty(t, env.EventID)
	assert.False(t, env.OccurredAt.IsZero())
}

func TestDeliveryPeriodSet(t *testing.T) {
	b, cs := newBridge()
	ctx := context.Background()

	add := func(key string) kafka.Message {
		payload, _ := json.Marshal(PeriodKeyPayload{PeriodKey: key})
		return msg(t, Envelope{EventType: EventNewPeriodKeyDelivering, UserID: "u1", Payload: payload})
	}

	require.NoError(t, b.Handle(ctx, add("2026-08-30:noon")))
	require.NoError(t, b.Handle(ctx, add("2026-08-30:evening")))
	assert.ElementsMatch(t, []string{"2026-08-30:noon", "2026-08-30:evening"}, b.DeliveryPeriods())
	assert.Equal(t, 2, cs["user"].calls, "period events also refetch orders")

	payload, _ := json.Marshal(PeriodKeyPayload{PeriodKey: "2026-08-30:noon"})
	require.NoError(t, b.Handle(ctx, msg(t, Envelope{
		EventType: EventRemovePeriodKeyDelivering, UserID: "u1", Payload: payload,
	})))
	assert.Equal(t, []string{"2026-08-30:evening"}, b.DeliveryPeriods())
}
