package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rota-engine/calendar"
)

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := calendar.ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", d.String())
	assert.Equal(t, time.Monday, d.Weekday())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := calendar.ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestISOWeekday_MondayIsOne_SundayIsSeven(t *testing.T) {
	assert.Equal(t, 1, date(2024, time.January, 1).ISOWeekday()) // Monday
	assert.Equal(t, 7, date(2024, time.January, 7).ISOWeekday()) // Sunday
}

func TestDaysBetween_Signed(t *testing.T) {
	a := date(2024, time.January, 1)
	b := date(2024, time.January, 8)
	assert.Equal(t, 7, calendar.DaysBetween(a, b))
	assert.Equal(t, -7, calendar.DaysBetween(b, a))
}

func TestPeriod_Days_InclusiveBothEnds(t *testing.T) {
	p := calendar.Period{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}
	days := p.Days()
	require.Len(t, days, 7)
	assert.Equal(t, p.Start, days[0])
	assert.Equal(t, p.End, days[6])
	assert.Equal(t, 7, p.Len())
}

func TestPeriod_SingleDay(t *testing.T) {
	d := date(2024, time.March, 15)
	p := calendar.Period{Start: d, End: d}
	assert.Equal(t, 1, p.Len())
	assert.True(t, p.Contains(d))
}

func TestNewPeriod_EndBeforeStart(t *testing.T) {
	_, err := calendar.NewPeriod(date(2024, time.March, 2), date(2024, time.March, 1))
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)
}

func TestPeriod_Overlaps_InclusiveTest(t *testing.T) {
	base := calendar.Period{Start: date(2024, time.June, 10), End: date(2024, time.June, 14)}

	tests := []struct {
		name    string
		other   calendar.Period
		overlap bool
	}{
		{"identical", base, true},
		{"touching at start", calendar.Period{Start: date(2024, time.June, 1), End: date(2024, time.June, 10)}, true},
		{"touching at end", calendar.Period{Start: date(2024, time.June, 14), End: date(2024, time.June, 20)}, true},
		{"inside", calendar.Period{Start: date(2024, time.June, 11), End: date(2024, time.June, 12)}, true},
		{"before", calendar.Period{Start: date(2024, time.June, 1), End: date(2024, time.June, 9)}, false},
		{"after", calendar.Period{Start: date(2024, time.June, 15), End: date(2024, time.June, 20)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
		})
	}
}

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	instant := time.Date(2024, time.July, 4, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, date(2024, time.July, 4), calendar.DateOf(instant))
}
