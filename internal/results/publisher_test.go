// internal/results/publisher_test.go
package results

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pongarena/matchengine/internal/models"
)

type mockStore struct {
	mu       sync.Mutex
	inserted []models.MatchResult
	err      error
}

func (m *mockStore) InsertMatchResult(_ context.Context, res *models.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, *res)
	return nil
}

type mockBus struct {
	mu        sync.Mutex
	published []models.MatchResultEvent
	err       error
}

func (m *mockBus) PublishMatchResult(_ context.Context, ev models.MatchResultEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, ev)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleResult() models.MatchResult {
	return models.MatchResult{
		GameID:         "g-1",
		PlayerOneID:    "a",
		PlayerOneScore: 7,
		PlayerTwoID:    "b",
		PlayerTwoScore: 3,
		WinnerID:       "a",
		Mode:           "1v1",
		DurationMs:     90000,
	}
}

func TestPublishPersistsResult(t *testing.T) {
	store := &mockStore{}
	bus := &mockBus{}
	pub := New(store, bus, quietLogger())

	pub.Publish(sampleResult(), nil)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "g-1", store.inserted[0].GameID)
	assert.Empty(t, bus.published, "no event for a non-tournament match")
}

func TestPublishEmitsTournamentEvent(t *testing.T) {
	store := &mockStore{}
	bus := &mockBus{}
	pub := New(store, bus, quietLogger())

	ev := &models.MatchResultEvent{WinnerID: "a", GameMatchID: "g-1", TournamentID: "t-1"}
	pub.Publish(sampleResult(), ev)

	require.Len(t, bus.published, 1)
	assert.Equal(t, *ev, bus.published[0])
}

func TestPublishStoreFailureStillEmits(t *testing.T) {
	store := &mockStore{err: errors.New("db down")}
	bus := &mockBus{}
	pub := New(store, bus, quietLogger())

	ev := &models.MatchResultEvent{WinnerID: "a", GameMatchID: "g-1", TournamentID: "t-1"}
	pub.Publish(sampleResult(), ev)

	assert.Empty(t, store.inserted)
	assert.Len(t, bus.published, 1, "persistence and emission fail independently")
}

func TestPublishBusFailureDoesNotPanic(t *testing.T) {
	store := &mockStore{}
	bus := &mockBus{err: errors.New("redis down")}
	pub := New(store, bus, quietLogger())

	ev := &models.MatchResultEvent{WinnerID: "a", GameMatchID: "g-1", TournamentID: "t-1"}
	pub.Publish(sampleResult(), ev)

	assert.Len(t, store.inserted, 1)
	assert.Empty(t, bus.published)
}

func TestPublishNilBusDropsEvent(t *testing.T) {
	store := &mockStore{}
	pub := New(store, nil, quietLogger())

	ev := &models.MatchResultEvent{WinnerID: "a", GameMatchID: "g-1", TournamentID: "t-1"}
	pub.Publish(sampleResult(), ev)

	assert.Len(t, store.inserted, 1)
}
