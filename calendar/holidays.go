package calendar

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/br"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"
	"github.com/sirupsen/logrus"
)

// ErrUnknownCountry indicates no holiday calendar is registered for a
// country code. Callers that must not fail should treat this as
// "not a holiday" (see HolidayCache).
var ErrUnknownCountry = errors.New("no holiday calendar for country")

// HolidaySource answers whether a date is a public holiday in a country.
type HolidaySource interface {
	IsHoliday(country string, d Date) (bool, error)
}

// =============================================================================
// CALENDAR SOURCE - Per-country public holidays
// =============================================================================

// CalendarSource resolves public holidays from per-country business
// calendars. Country codes are ISO 3166-1 alpha-2, case-insensitive.
type CalendarSource struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewCalendarSource() *CalendarSource {
	countries := map[string][]*cal.Holiday{
		"US": us.Holidays,
		"GB": gb.Holidays,
		"DE": de.Holidays,
		"FR": fr.Holidays,
		"BR": br.Holidays,
		"CA": ca.Holidays,
		// Australian holidays are published per state; NSW stands in for
		// the country until per-region codes are supported.
		"AU": au.HolidaysNSW,
	}

	calendars := make(map[string]*cal.BusinessCalendar, len(countries))
	for code, holidays := range countries {
		c := cal.NewBusinessCalendar()
		c.AddHoliday(holidays...)
		calendars[code] = c
	}
	return &CalendarSource{calendars: calendars}
}

func (s *CalendarSource) IsHoliday(country string, d Date) (bool, error) {
	c, ok := s.calendars[strings.ToUpper(country)]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	_, observed, _ := c.IsHoliday(d.Time)
	return observed, nil
}

// =============================================================================
// HOLIDAY CACHE - Memoized per (date, country), fail-open
// =============================================================================

// HolidayCache memoizes holiday lookups with an explicit (date, country)
// cache key. Lookup failures (unknown country, bad data) are treated as
// "not a holiday": a broken holiday feed must never abort calendar
// generation, only skip holiday suppression.
type HolidayCache struct {
	source HolidaySource
	log    *logrus.Logger

	mu   sync.RWMutex
	seen map[holidayKey]bool
}

type holidayKey struct {
	country string
	date    Date
}

func NewHolidayCache(source HolidaySource, log *logrus.Logger) *HolidayCache {
	if log == nil {
		log = logrus.New()
	}
	return &HolidayCache{
		source: source,
		log:    log,
		seen:   make(map[holidayKey]bool),
	}
}

// IsHoliday reports whether d is a public holiday for country.
func (h *HolidayCache) IsHoliday(country string, d Date) bool {
	k := holidayKey{country: strings.ToUpper(country), date: d}

	h.mu.RLock()
	v, ok := h.seen[k]
	h.mu.RUnlock()
	if ok {
		return v
	}

	v, err := h.source.IsHoliday(country, d)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"country": country,
			"date":    d.String(),
		}).WithError(err).Warn("holiday lookup failed, treating as working day")
		v = false
	}

	h.mu.Lock()
	h.seen[k] = v
	h.mu.Unlock()
	return v
}
