// Package calendar implements the business-day rules used to generate
// schedule slots: the Italian public-holiday table, computed Easter
// dates, optional "prefestivo" half-days and user-supplied closure
// dates, plus the daily working-hour window.
package calendar

import (
	"time"
)

// Default working-hour window: slots run from 08:00 (inclusive) to
// 18:00 (exclusive), ten one-hour slots per business day.
const (
	DefaultDayStartHour = 8
	DefaultDayEndHour   = 18
)

type monthDay struct {
	month time.Month
	day   int
}

// Fixed Italian public holidays (Gregorian month-day). Easter Monday is
// computed per year, see easter.go.
var fixedHolidays = []monthDay{
	{time.January, 1},   // Capodanno
	{time.January, 6},   // Epifania
	{time.April, 25},    // Liberazione
	{time.May, 1},       // Festa del Lavoro
	{time.June, 2},      // Festa della Repubblica
	{time.August, 15},   // Ferragosto
	{time.November, 1},  // Ognissanti
	{time.December, 8},  // Immacolata
	{time.December, 25}, // Natale
	{time.December, 26}, // Santo Stefano
}

// Prefestivi: half-working days preceding major holidays. Working by
// default; a calendar may be configured to treat them as closures.
var prefestivi = []monthDay{
	{time.August, 14},
	{time.October, 31},
	{time.December, 24},
	{time.December, 31},
}

// Calendar answers "is this a working day" and bounds the working
// hours of a day. The zero value is not usable; use New.
type Calendar struct {
	dayStartHour      int
	dayEndHour        int
	includePrefestivi bool
	extraClosures     map[civilDate]bool
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func toCivil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithWorkingHours overrides the 08:00-18:00 default. End is exclusive.
func WithWorkingHours(startHour, endHour int) Option {
	return func(c *Calendar) {
		c.dayStartHour = startHour
		c.dayEndHour = endHour
	}
}

// WithPrefestivi controls whether the day-before-holiday half-days
// count as working days. They do unless disabled here.
func WithPrefestivi(include bool) Option {
	return func(c *Calendar) {
		c.includePrefestivi = include
	}
}

// WithExtraClosures adds company-specific closure dates on top of the
// public-holiday table.
func WithExtraClosures(dates []time.Time) Option {
	return func(c *Calendar) {
		for _, d := range dates {
			c.extraClosures[toCivil(d)] = true
		}
	}
}

func New(opts ...Option) *Calendar {
	c := &Calendar{
		dayStartHour:      DefaultDayStartHour,
		dayEndHour:        DefaultDayEndHour,
		includePrefestivi: true,
		extraClosures:     make(map[civilDate]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DayStartHour returns the first working hour of a business day.
func (c *Calendar) DayStartHour() int { return c.dayStartHour }

// DayEndHour returns the exclusive upper bound of the working hours.
func (c *Calendar) DayEndHour() int { return c.dayEndHour }

// IsHoliday reports whether d falls on a public holiday, a computed
// Easter date, or an extra closure date.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, m, day := d.Date()
	for _, h := range fixedHolidays {
		if h.month == m && h.day == day {
			return true
		}
	}
	easterSunday := Easter(d.Year())
	easterMonday := easterSunday.AddDate(0, 0, 1)
	if sameDate(d, easterSunday) || sameDate(d, easterMonday) {
		return true
	}
	return c.extraClosures[toCivil(d)]
}

// IsPrefestivo reports whether d is a half-working day preceding a
// major holiday.
func (c *Calendar) IsPrefestivo(d time.Time) bool {
	_, m, day := d.Date()
	for _, p := range prefestivi {
		if p.month == m && p.day == day {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether slots should be generated for d:
// not a weekend, not a holiday, and not an excluded prefestivo.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if c.IsHoliday(d) {
		return false
	}
	if !c.includePrefestivi && c.IsPrefestivo(d) {
		return false
	}
	return true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
