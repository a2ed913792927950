package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-backend/internal/models"
)

func TestPollReturnsExistingMessages(t *testing.T) {
	store := newFakeStore()
	q := New(store, &fakeRemover{}, 5)
	_, err := q.AddMessage(1, "hello", models.TypeText, nil)
	require.NoError(t, err)

	p := NewPoller(store, 2*time.Second, time.Second)

	start := time.Now()
	msgs, err := p.Poll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestPollTimesOutEmpty(t *testing.T) {
	store := newFakeStore()
	q := New(store, &fakeRemover{}, 5)
	id, err := q.AddMessage(1, "seen", models.TypeText, nil)
	require.NoError(t, err)

	p := NewPoller(store, 400*time.Millisecond, 100*time.Millisecond)

	start := time.Now()
	msgs, err := p.Poll(context.Background(), id)
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Empty(t, msgs)
	require.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	require.Less(t, elapsed, time.Second)
}

func TestPollPicksUpLateInsert(t *testing.T) {
	store := newFakeStore()
	q := New(store, &fakeRemover{}, 5)
	id, err := q.AddMessage(1, "seen", models.TypeText, nil)
	require.NoError(t, err)

	p := NewPoller(store, 2*time.Second, 50*time.Millisecond)

	go func() {
		time.Sleep(150 * time.Millisecond)
		_, _ = q.AddMessage(2, "fresh", models.TypeText, nil)
	}()

	msgs, err := p.Poll(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "fresh", msgs[0].Text)
	require.Greater(t, msgs[0].ID, id)
}

func TestPollCursorSkipsDelivered(t *testing.T) {
	store := newFakeStore()
	q := New(store, &fakeRemover{}, 5)
	for _, text := range []string{"a", "b", "c"} {
		_, err := q.AddMessage(1, text, models.TypeText, nil)
		require.NoError(t, err)
	}

	p := NewPoller(store, time.Second, 100*time.Millisecond)

	msgs, err := p.Poll(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "b", msgs[0].Text)
	require.Equal(t, "c", msgs[1].Text)
}

func TestPollStopsOnContextCancel(t *testing.T) {
	store := newFakeStore()

	p := NewPoller(store, 5*time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	msgs, err := p.Poll(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, msgs)
	require.Less(t, time.Since(start), time.Second)
}
