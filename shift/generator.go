package shift

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/warp/rota-engine/calendar"
	"github.com/warp/rota-engine/org"
)

// =============================================================================
// GENERATOR - Materializes working dates up to a bounded horizon
// =============================================================================

// HolidayChecker answers the company-country holiday question. Lookup
// failures are the checker's concern; it only ever returns a bool
// (fail open - see calendar.HolidayCache).
type HolidayChecker interface {
	IsHoliday(country string, d calendar.Date) bool
}

// CompanySource resolves a shift's owning company for the holiday policy.
type CompanySource interface {
	Company(ctx context.Context, id string) (*org.Company, error)
}

// Result summarizes one generation run.
type Result struct {
	ShiftID    string
	From       calendar.Date
	To         calendar.Date
	DatesAdded int
	Full       bool
}

// Generator walks the day axis for a shift and persists working dates.
//
// CONCURRENCY:
//
//	Runs for the same shift are serialized with a per-shift mutex so two
//	overlapping regenerations cannot race on LastGenerated or double-write.
//	Different shifts generate independently.
//
// CRASH SAFETY:
//
//	A full regeneration first resets LastGenerated to zero, then clears
//	and rebuilds. A crash mid-run leaves the mark at zero, so the next
//	run starts over from the rotation start; AddWorkingDate is an upsert,
//	so the replay converges on the same materialized set.
type Generator struct {
	Store     Store
	Companies CompanySource
	Holidays  HolidayChecker

	// Horizon computes the generation bound from "today". When nil,
	// DefaultHorizon is used.
	Horizon func(today calendar.Date) calendar.Date

	// DefaultCountry is used for holiday lookups when a company has no
	// country configured.
	DefaultCountry string

	Log *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// DefaultHorizon bounds generation at the end of the calendar year two
// years ahead of today. Generous, but never unbounded.
func DefaultHorizon(today calendar.Date) calendar.Date {
	return calendar.EndOfYear(today.Year() + 2)
}

func NewGenerator(store Store, companies CompanySource, holidays HolidayChecker, log *logrus.Logger) *Generator {
	if log == nil {
		log = logrus.New()
	}
	return &Generator{
		Store:     store,
		Companies: companies,
		Holidays:  holidays,
		Log:       log,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (g *Generator) shiftLock(shiftID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[shiftID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[shiftID] = l
	}
	return l
}

// Generate materializes working dates for a shift up to the horizon.
//
// Incremental runs (full=false on an already-generated shift) resume
// from LastGenerated+1. A full run, or a run on a never-generated shift,
// starts at the rotation start; full additionally clears every existing
// association for the shift's blocks first.
func (g *Generator) Generate(ctx context.Context, shiftID string, full bool) (*Result, error) {
	lock := g.shiftLock(shiftID)
	lock.Lock()
	defer lock.Unlock()

	sh, err := g.Store.Shift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := sh.Validate(); err != nil {
		return nil, err
	}

	company, err := g.Companies.Company(ctx, sh.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolve company for shift %s: %w", shiftID, err)
	}

	blocks, err := g.Store.Blocks(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	// Malformed configuration must abort before any dates are written,
	// not silently produce wrong ones.
	for _, b := range blocks {
		if err := b.Normalize(); err != nil {
			return nil, &DataIntegrityError{ShiftID: shiftID, BlockID: b.ID, Reason: err.Error()}
		}
	}

	today := calendar.Today()
	horizon := DefaultHorizon(today)
	if g.Horizon != nil {
		horizon = g.Horizon(today)
	}

	country := company.Country
	if country == "" {
		country = g.DefaultCountry
	}

	start := sh.StartDate
	if full || sh.LastGenerated.IsZero() {
		if full {
			// Reset the mark before clearing: a crash between here and
			// completion forces the next run to rebuild from scratch.
			if err := g.Store.SetLastGenerated(ctx, shiftID, calendar.Date{}); err != nil {
				return nil, err
			}
			if err := g.Store.ClearWorkingDates(ctx, shiftID); err != nil {
				return nil, err
			}
		}
	} else {
		start = sh.LastGenerated.AddDays(1)
	}

	result := &Result{ShiftID: shiftID, From: start, To: horizon, Full: full}
	if start.After(horizon) {
		g.Log.WithField("shift", shiftID).Debug("nothing to generate, already at horizon")
		return result, nil
	}

	for day := start; day.BeforeOrEqual(horizon); day = day.AddDays(1) {
		if err := ctx.Err(); err != nil {
			// Cancel-safe: progress up to the previous day is already
			// persisted via upserts; the mark stays where it was.
			return nil, err
		}
		for _, b := range blocks {
			if !b.IsWorking(sh.StartDate, day) {
				continue
			}
			if !company.WorkingOnLocalHolidays && g.Holidays.IsHoliday(country, day) {
				continue
			}
			if err := g.Store.AddWorkingDate(ctx, shiftID, WorkingDate{Date: day, BlockID: b.ID}); err != nil {
				return nil, fmt.Errorf("materialize %s for block %s: %w", day, b.ID, err)
			}
			result.DatesAdded++
		}
	}

	if err := g.Store.SetLastGenerated(ctx, shiftID, horizon); err != nil {
		return nil, err
	}

	g.Log.WithFields(logrus.Fields{
		"shift": shiftID,
		"from":  start.String(),
		"to":    horizon.String(),
		"dates": result.DatesAdded,
		"full":  full,
	}).Info("materialized working dates")

	return result, nil
}

// GenerateAll runs incremental generation for every shift. One bad shift
// (integrity error) is logged and skipped so a scheduled batch run is
// never halted by a single misconfiguration.
func (g *Generator) GenerateAll(ctx context.Context) error {
	shifts, err := g.Store.Shifts(ctx)
	if err != nil {
		return err
	}
	for _, sh := range shifts {
		if _, err := g.Generate(ctx, sh.ID, false); err != nil {
			if ctx.Err() != nil {
				return err
			}
			g.Log.WithField("shift", sh.ID).WithError(err).Error("generation failed, continuing batch")
		}
	}
	return nil
}
