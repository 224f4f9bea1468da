// internal/results/publisher.go
package results

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pongarena/matchengine/internal/models"
)

// Store persists finished match results.
type Store interface {
	InsertMatchResult(ctx context.Context, res *models.MatchResult) error
}

// Bus delivers tournament result events to downstream consumers.
type Bus interface {
	PublishMatchResult(ctx context.Context, ev models.MatchResultEvent) error
}

// Publisher fans a finished match out to persistence and, for tournament
// matches, the event bus. Failures are logged but never surfaced back
// into the game loop.
type Publisher struct {
	Store   Store
	Bus     Bus
	Logger  *logrus.Logger
	Timeout time.Duration
}

func New(store Store, bus Bus, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Publisher{
		Store:   store,
		Bus:     bus,
		Logger:  logger,
		Timeout: 5 * time.Second,
	}
}

// Publish records res and, when ev is non-nil, emits it on the bus.
// Persistence and emission are independent: a store failure does not
// suppress the event, and vice versa.
func (p *Publisher) Publish(res models.MatchResult, ev *models.MatchResultEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	if p.Store != nil {
		if err := p.Store.InsertMatchResult(ctx, &res); err != nil {
			p.Logger.WithFields(logrus.Fields{
				"gameId":   res.GameID,
				"winnerId": res.WinnerID,
			}).Errorf("Failed to persist match result: %v", err)
		}
	}

	if ev == nil {
		return
	}
	if p.Bus == nil {
		p.Logger.WithField("gameId", ev.GameMatchID).
			Warn("No event bus configured, dropping tournament result event")
		return
	}
	if err := p.Bus.PublishMatchResult(ctx, *ev); err != nil {
		p.Logger.WithFields(logrus.Fields{
			"gameMatchId":  ev.GameMatchID,
			"tournamentId": ev.TournamentID,
		}).Errorf("Failed to publish tournament result event: %v", err)
		return
	}
	p.Logger.WithFields(logrus.Fields{
		"gameMatchId":  ev.GameMatchID,
		"tournamentId": ev.TournamentID,
		"winnerId":     ev.WinnerID,
	}).Info("Published tournament result event")
}
