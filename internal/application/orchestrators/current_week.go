package orchestrators

import (
	"context"
	"time"

	"softres/internal/domain/apperr"
	"softres/internal/domain/week"
)

// WeekResolver is the minimal week lookup every mutating orchestrator needs.
type WeekResolver interface {
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
}

// resolveCurrentWeek finds the week row whose label matches the wall clock.
// PRE: now is the orchestrator's injected clock reading
// POST: Returns the current week, or a current_week_missing error
func resolveCurrentWeek(ctx context.Context, ws WeekResolver, now time.Time) (week.Week, error) {
	label := week.CurrentLabel(now)
	w, found, err := ws.GetByLabel(ctx, label)
	if err != nil {
		return week.Week{}, err
	}
	if !found {
		return week.Week{}, apperr.New(apperr.KindCurrentWeekMissing, "no week row for "+label)
	}
	return w, nil
}
