/*
Package shift implements the rotation engine: repeating on/off-day
patterns and their materialization into concrete working dates.

KEY CONCEPTS:
  - Shift:  A named, company-scoped rotation made of ordered blocks,
            anchored at a start date. Carries a LastGenerated high-water
            mark so materialization can resume incrementally.
  - Block:  One cadence component. Configured EITHER with an explicit
            weekday set OR with a days-on/days-off cycle, never both.
            Normalizes to a fixed-length on/off bit sequence indexed by
            (date - shift start) mod len.
  - Generator: Walks the day axis from the resume point to a two-year
            horizon, applies the company's holiday-observance policy, and
            persists (date, block) working-date associations.

DATA FLOW:
  Block config -> Normalize() -> on/off sequence -> Generator -> Store
  (materialized dates) -> workday query service.

SEE ALSO:
  - block.go: normalization and the periodic IsWorking predicate
  - generator.go: incremental/full materialization
*/
package shift

import (
	"context"
	"time"

	"github.com/warp/rota-engine/calendar"
)

// =============================================================================
// SHIFT - A company-scoped rotation definition
// =============================================================================

type Shift struct {
	ID          string
	CompanyID   string
	Name        string
	Description string

	// StartDate anchors the rotation: day index 0 of every block.
	StartDate calendar.Date

	// RotationWeeks bounds the rotation length (1-52).
	RotationWeeks int

	// LastGenerated is the high-water mark of materialization; zero means
	// never generated.
	LastGenerated calendar.Date
}

// Validate checks the admin-authored fields. Name uniqueness per company
// is enforced by the store.
func (s *Shift) Validate() error {
	if s.RotationWeeks < 1 || s.RotationWeeks > 52 {
		return ErrRotationBounds
	}
	return nil
}

// =============================================================================
// WORKING DATE - One materialized (date, block) association
// =============================================================================

type WorkingDate struct {
	Date    calendar.Date
	BlockID string
}

// =============================================================================
// STORE - Persistence consumed by the rotation engine
// =============================================================================

// Store is the persistence surface the generator and the workday query
// service run against. AddWorkingDate MUST be an upsert: re-adding an
// already-present association is a no-op, which is what makes resumed
// generation idempotent.
type Store interface {
	Shift(ctx context.Context, id string) (*Shift, error)
	Shifts(ctx context.Context) ([]*Shift, error)
	SaveShift(ctx context.Context, s *Shift) error

	// Blocks returns a shift's blocks ordered by their Order field.
	Blocks(ctx context.Context, shiftID string) ([]*Block, error)
	SaveBlock(ctx context.Context, b *Block) error

	// SetLastGenerated persists the materialization high-water mark.
	// A zero date resets it (full regeneration in progress).
	SetLastGenerated(ctx context.Context, shiftID string, d calendar.Date) error

	AddWorkingDate(ctx context.Context, shiftID string, wd WorkingDate) error
	ClearWorkingDates(ctx context.Context, shiftID string) error

	// WorkingDates returns the materialized associations for a shift
	// intersected with the period, ordered by date then block order.
	WorkingDates(ctx context.Context, shiftID string, p calendar.Period) ([]WorkingDate, error)
}

// minutesPerDay is used when rolling overnight windows forward.
const minutesPerDay = 24 * 60

func minuteOfDay(h, m int) int { return h*60 + m }

func formatMinute(m int) string {
	m %= minutesPerDay
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}
