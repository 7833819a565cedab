/*
Copyright © 2026 the climatology authors.
This file is part of climatology.

climatology is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climatology is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climatology.  If not, see <http://www.gnu.org/licenses/>.
*/

package climatology

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date in an arbitrary CF calendar, so it may hold
// dates such as February 30 that do not exist in the Gregorian calendar.
type Date struct {
	Year, Month, Day int
}

// TimeUnits decodes time coordinates that follow the CF conventions,
// e.g. units of "days since 1850-01-01" in the "noleap" calendar.
type TimeUnits struct {
	// unit is the length of one time step in seconds.
	unit float64

	ref        Date
	refSeconds float64

	Calendar string

	// monthDays holds the month lengths of fixed-length calendars and
	// is nil for Gregorian calendars.
	monthDays []int
}

var (
	noLeapMonths  = []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	allLeapMonths = []int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	day360Months  = []int{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
)

// ParseTimeUnits parses a CF time units attribute and calendar. An empty
// calendar is treated as "standard". Mixed Julian/Gregorian calendars are
// treated as proleptic Gregorian.
func ParseTimeUnits(units, calendar string) (TimeUnits, error) {
	var u TimeUnits
	calendar = strings.ToLower(strings.TrimSpace(calendar))
	switch calendar {
	case "", "standard", "gregorian", "proleptic_gregorian":
		if calendar == "" {
			calendar = "standard"
		}
	case "noleap", "365_day":
		u.monthDays = noLeapMonths
	case "all_leap", "366_day":
		u.monthDays = allLeapMonths
	case "360_day":
		u.monthDays = day360Months
	default:
		return u, fmt.Errorf("climatology: unsupported calendar %q", calendar)
	}
	u.Calendar = calendar

	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return u, fmt.Errorf("climatology: invalid time units %q", units)
	}
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "days", "day", "d":
		u.unit = 86400
	case "hours", "hour", "hrs", "hr", "h":
		u.unit = 3600
	case "minutes", "minute", "mins", "min":
		u.unit = 60
	case "seconds", "second", "secs", "sec", "s":
		u.unit = 1
	default:
		return u, fmt.Errorf("climatology: unsupported time unit %q in %q", parts[0], units)
	}

	ref := strings.TrimSpace(parts[1])
	ref = strings.TrimSuffix(ref, "UTC")
	ref = strings.TrimSuffix(ref, "Z")
	ref = strings.Replace(ref, "T", " ", 1)
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return u, fmt.Errorf("climatology: missing reference date in %q", units)
	}
	ymd := strings.Split(fields[0], "-")
	if len(ymd) != 3 {
		return u, fmt.Errorf("climatology: invalid reference date in %q", units)
	}
	vals := make([]int, 3)
	for i, s := range ymd {
		v, err := strconv.Atoi(s)
		if err != nil {
			return u, fmt.Errorf("climatology: invalid reference date in %q: %v", units, err)
		}
		vals[i] = v
	}
	u.ref = Date{Year: vals[0], Month: vals[1], Day: vals[2]}
	if u.ref.Month < 1 || u.ref.Month > 12 || u.ref.Day < 1 || u.ref.Day > u.daysIn(u.ref.Year, u.ref.Month) {
		return u, fmt.Errorf("climatology: reference date in %q does not exist in the %s calendar", units, calendar)
	}
	if len(fields) > 1 {
		hms := strings.Split(fields[1], ":")
		scale := 3600.
		for _, s := range hms {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return u, fmt.Errorf("climatology: invalid reference time in %q: %v", units, err)
			}
			u.refSeconds += v * scale
			scale /= 60
		}
	}
	return u, nil
}

func (u TimeUnits) daysIn(year, month int) int {
	if u.monthDays != nil {
		return u.monthDays[month-1]
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the calendar date of time coordinate value v.
func (u TimeUnits) Date(v float64) Date {
	days := int(math.Floor((v*u.unit + u.refSeconds) / 86400))
	if u.monthDays == nil {
		t := time.Date(u.ref.Year, time.Month(u.ref.Month), u.ref.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
		return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	}
	yearLen := 0
	for _, d := range u.monthDays {
		yearLen += d
	}
	doy := u.ref.Day - 1 + days
	for m := 0; m < u.ref.Month-1; m++ {
		doy += u.monthDays[m]
	}
	year := u.ref.Year + floorDiv(doy, yearLen)
	doy -= floorDiv(doy, yearLen) * yearLen
	month := 0
	for doy >= u.monthDays[month] {
		doy -= u.monthDays[month]
		month++
	}
	return Date{Year: year, Month: month + 1, Day: doy + 1}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
