package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDrained = errors.New("drained")

type fakeReader struct {
	msgs      []kafka.Message
	i         int
	committed []int64
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if f.i >= len(f.msgs) {
		return kafka.Message{}, errDrained
	}
	m := f.msgs[f.i]
	f.i++
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestStartCommitsOnlyHandledMessages(t *testing.T) {
	// Offset 1 fails on first delivery; the fake broker redelivers it.
	fr := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte("a")},
		{Offset: 1, Value: []byte("a")},
		{Offset: 2, Value: []byte("b")},
	}}
	c := &Consumer{r: fr}

	var calls int
	err := c.Start(context.Background(), func(_ context.Context, m kafka.Message) error {
		calls++
		if calls == 1 {
			return errors.New("refetch failed")
		}
		return nil
	})

	require.ErrorIs(t, err, errDrained)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{1, 2}, fr.committed, "a failed handler must not commit its offset")
	assert.True(t, fr.closed)
}

func TestStartStopsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fr := &fakeReader{msgs: []kafka.Message{{Offset: 1}}}
	c := &Consumer{r: fr}

	err := c.Start(ctx, func(context.Context, kafka.Message) error {
		t.Fatal("handler must not run after cancel")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, fr.closed)
}
