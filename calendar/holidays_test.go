package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/warp/rota-engine/calendar"
)

// countingSource records lookups so memoization can be observed.
type countingSource struct {
	calls    int
	holidays map[calendar.Date]bool
	err      error
}

func (s *countingSource) IsHoliday(country string, d calendar.Date) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.holidays[d], nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestHolidayCache_MemoizesPerDateAndCountry(t *testing.T) {
	// GIVEN: a cache over a source
	// WHEN: the same (date, country) is asked three times
	// THEN: the source is consulted exactly once

	christmas := date(2024, time.December, 25)
	source := &countingSource{holidays: map[calendar.Date]bool{christmas: true}}
	cache := calendar.NewHolidayCache(source, quietLogger())

	for i := 0; i < 3; i++ {
		assert.True(t, cache.IsHoliday("US", christmas))
	}
	assert.Equal(t, 1, source.calls)

	// A different country is a different cache key.
	cache.IsHoliday("GB", christmas)
	assert.Equal(t, 2, source.calls)
}

func TestHolidayCache_FailsOpenOnLookupError(t *testing.T) {
	// GIVEN: a source that errors (unknown country, bad data)
	// WHEN: asking about any date
	// THEN: the answer is "not a holiday", and it is cached

	source := &countingSource{err: errors.New("feed unavailable")}
	cache := calendar.NewHolidayCache(source, quietLogger())

	d := date(2024, time.July, 4)
	assert.False(t, cache.IsHoliday("ZZ", d))
	assert.False(t, cache.IsHoliday("ZZ", d))
	assert.Equal(t, 1, source.calls, "failed lookup should be memoized too")
}

func TestCalendarSource_KnownCountryHolidays(t *testing.T) {
	source := calendar.NewCalendarSource()

	// Christmas Day is observed in every registered calendar we rely on.
	holiday, err := source.IsHoliday("US", date(2024, time.December, 25))
	assert.NoError(t, err)
	assert.True(t, holiday)

	// Country codes are case-insensitive.
	holiday, err = source.IsHoliday("us", date(2024, time.July, 4))
	assert.NoError(t, err)
	assert.True(t, holiday)

	// An ordinary Tuesday is not a holiday.
	holiday, err = source.IsHoliday("US", date(2024, time.March, 12))
	assert.NoError(t, err)
	assert.False(t, holiday)

	// AU resolves through the NSW state calendar.
	holiday, err = source.IsHoliday("AU", date(2024, time.December, 25))
	assert.NoError(t, err)
	assert.True(t, holiday)
}

func TestCalendarSource_UnknownCountry(t *testing.T) {
	source := calendar.NewCalendarSource()
	_, err := source.IsHoliday("XX", date(2024, time.January, 1))
	assert.ErrorIs(t, err, calendar.ErrUnknownCountry)
}
