package pipeline

import (
	"context"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/idhash"
	"power-band-lab/internal/storage"
)

// LoadFixtures populates the event store with a small demonstration
// dataset covering all power bands and exit states.
func LoadFixtures(ctx context.Context, store storage.EventStore) error {
	events := buildFixtureEvents()
	return store.InsertBulk(ctx, events)
}

func buildFixtureEvents() []*domain.Event {
	specs := []struct {
		symbol   string
		dir      string
		power    float64
		gain     float64
		duration float64
		exit     string // empty means still open
	}{
		{"SOLUSDT", "LONG", 45.2, -1.8, 340, domain.ExitReasonStopLoss},
		{"SOLUSDT", "LONG", 58.7, 2.4, 125, domain.ExitReasonTakeProfit},
		{"ETHUSDT", "SHORT", 63.0, 3.1, 92, domain.ExitReasonTakeProfit},
		{"ETHUSDT", "LONG", 67.5, -0.9, 410, domain.ExitReasonStopLoss},
		{"BTCUSDT", "LONG", 71.4, 4.8, 60, domain.ExitReasonTakeProfit},
		{"BTCUSDT", "SHORT", 78.9, 5.2, 55, domain.ExitReasonTakeProfit},
		{"SOLUSDT", "SHORT", 84.1, 6.0, 48, domain.ExitReasonTakeProfit},
		{"ETHUSDT", "LONG", 92.3, 8.7, 30, domain.ExitReasonTakeProfit},
		{"BTCUSDT", "LONG", 96.0, 0, 0, ""}, // still open
	}

	events := make([]*domain.Event, 0, len(specs))
	for i, s := range specs {
		e := &domain.Event{
			EventID: idhash.ComputeEventID(idhash.SourceDataset, s.symbol, s.dir, i),
			Symbol:  s.symbol,
			Dir:     s.dir,
			Power:   ptr(s.power),
		}
		if s.exit != "" {
			exit := s.exit
			status := domain.StatusClosed
			e.ExitReason = &exit
			e.Status = &status
			e.GainPct = ptr(s.gain)
			e.DurationSec = ptr(s.duration)
		}
		events = append(events, e)
	}
	return events
}

func ptr(v float64) *float64 { return &v }
