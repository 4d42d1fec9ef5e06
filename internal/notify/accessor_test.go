package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Tchindavaldo/yaammoo-core/internal/domain"
	"github.com/Tchindavaldo/yaammoo-core/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	get func(path string, out any) error
	put func(path string, in, out any) error
}

func (f *fakeAPI) GetJSON(_ context.Context, path string, out any) error {
	if f.get == nil {
		return nil
	}
	return f.get(path, out)
}

func (f *fakeAPI) PutJSON(_ context.Context, path string, in, out any) error {
	if f.put == nil {
		return nil
	}
	return f.put(path, in, out)
}

func seeded() *fakeAPI {
	return &fakeAPI{get: func(path string, out any) error {
		*(out.(*[]domain.Notification)) = []domain.Notification{
			{ID: "n1", GroupID: "g1"},
			{ID: "n2", GroupID: "g1"},
			{ID: "n3"},
			{ID: "n4", IsRead: true},
		}
		return nil
	}}
}

func TestFetchBuildsQuery(t *testing.T) {
	var gotPath string
	api := &fakeAPI{get: func(path string, out any) error {
		gotPath = path
		return nil
	}}

	require.NoError(t, notify.New(api, "u1", "ff1").Fetch(context.Background()))
	assert.Equal(t, "/notification/user?fastFoodId=ff1&userId=u1", gotPath)

	require.NoError(t, notify.New(api, "u1", "").Fetch(context.Background()))
	assert.Equal(t, "/notification/user?userId=u1", gotPath)
}

func TestUnreadIsDerived(t *testing.T) {
	acc := notify.New(seeded(), "u1", "")
	require.NoError(t, acc.Fetch(context.Background()))

	assert.Len(t, acc.Snapshot(), 4)
	assert.Equal(t, 3, acc.UnreadCount())
}

func TestMarkReadFlipsGroup(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	acc := notify.New(api, "u1", "")
	require.NoError(t, acc.Fetch(ctx))

	var gotPath string
	api.put = func(path string, _, _ any) error {
		gotPath = path
		return nil
	}

	require.NoError(t, acc.MarkRead(ctx, "n1", "g1"))
	assert.Equal(t, "/notification/read/n1?groupId=g1", gotPath)
	assert.Equal(t, 1, acc.UnreadCount(), "both group members must flip")

	// Marking an already-read notification again is a no-op that succeeds.
	require.NoError(t, acc.MarkRead(ctx, "n1", "g1"))
	assert.Equal(t, 1, acc.UnreadCount())
}

func TestMarkReadRevertsOnlyWhatItFlipped(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	acc := notify.New(api, "u1", "")
	require.NoError(t, acc.Fetch(ctx))

	// n2 was already read locally before the failing call.
	require.NoError(t, acc.MarkRead(ctx, "n2", ""))
	require.Equal(t, 2, acc.UnreadCount())

	api.put = func(string, any, any) error { return errors.New("offline") }
	require.Error(t, acc.MarkRead(ctx, "n1", "g1"))

	// n1 reverted, n2 keeps its earlier read mark.
	assert.Equal(t, 2, acc.UnreadCount())
	for _, n := range acc.Snapshot() {
		switch n.ID {
		case "n1":
			assert.False(t, n.IsRead)
		case "n2":
			assert.True(t, n.IsRead)
		}
	}
}
