package shift

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/rota-engine/calendar"
)

// =============================================================================
// BLOCK - One cadence component of a shift
// =============================================================================

// Block is configured in exactly one of two modes:
//
//   - WeekDays: explicit weekday selection. Normalizes to a 7-day
//     sequence with index 0 = Monday; rotation start dates for weekday
//     blocks are Monday-anchored.
//   - DaysOn/DaysOff: a repeating cycle of DaysOn working days followed
//     by DaysOff rest days.
//
// Mixing modes, or specifying neither, is a configuration error caught
// by Normalize at save time.
type Block struct {
	ID      string
	ShiftID string

	// Order defines evaluation sequence within the shift; later blocks
	// add to earlier ones' working dates.
	Order int

	// Explicit weekday mode. Kept as authored for edit round-trips.
	WeekDays []time.Weekday

	// Cycle mode.
	DaysOn  int
	DaysOff int

	// Time-of-day window, minutes since midnight. An EndMinute at or
	// before StartMinute rolls into the next day (overnight shift).
	StartMinute int
	EndMinute   int

	onOff []bool
}

// NewBlockTime is a convenience for the minutes-since-midnight fields.
func NewBlockTime(hour, minute int) int { return minuteOfDay(hour, minute) }

// Normalize derives the on/off bit sequence from the block's
// configuration. It must be called (and must succeed) before IsWorking.
func (b *Block) Normalize() error {
	weekdayMode := len(b.WeekDays) > 0
	cycleMode := b.DaysOn > 0 || b.DaysOff > 0

	switch {
	case weekdayMode && cycleMode:
		return ErrBlockModeConflict
	case !weekdayMode && !cycleMode:
		return ErrBlockModeMissing
	}

	if weekdayMode {
		seq := make([]bool, 7)
		for _, wd := range b.WeekDays {
			// index 0 = Monday .. 6 = Sunday
			seq[(int(wd)+6)%7] = true
		}
		b.onOff = seq
		return nil
	}

	if b.DaysOn < 1 {
		return ErrBlockModeMissing
	}
	seq := make([]bool, b.DaysOn+b.DaysOff)
	for i := 0; i < b.DaysOn; i++ {
		seq[i] = true
	}
	b.onOff = seq
	return nil
}

// OnOffDays exposes the normalized sequence (nil until Normalize).
func (b *Block) OnOffDays() []bool { return b.onOff }

// IsWorking reports whether d is a working day for this block, given the
// owning shift's rotation start. The day index wraps periodically in
// both directions, so dates before the start follow the same cycle.
func (b *Block) IsWorking(shiftStart, d calendar.Date) bool {
	n := len(b.onOff)
	if n == 0 {
		return false
	}
	idx := calendar.DaysBetween(shiftStart, d) % n
	if idx < 0 {
		idx += n
	}
	return b.onOff[idx]
}

// Duration is the length of the block's time window. Windows that end at
// or before their start are overnight and roll to the next day.
func (b *Block) Duration() time.Duration {
	minutes := b.EndMinute - b.StartMinute
	if minutes <= 0 {
		minutes += minutesPerDay
	}
	return time.Duration(minutes) * time.Minute
}

// Hours is the window length in hours, exact to the minute.
func (b *Block) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(b.Duration() / time.Minute)).
		Div(decimal.NewFromInt(60))
}

// StartClock and EndClock render the window bounds as HH:MM.
func (b *Block) StartClock() string { return formatMinute(b.StartMinute) }
func (b *Block) EndClock() string   { return formatMinute(b.EndMinute) }
