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

import "testing"

func TestTimeUnits(t *testing.T) {
	for _, test := range []struct {
		units, calendar string
		val             float64
		want            Date
	}{
		{"days since 1850-01-01", "standard", 0, Date{1850, 1, 1}},
		{"days since 1850-01-01", "", 365, Date{1851, 1, 1}},
		{"days since 2000-01-01", "gregorian", 59, Date{2000, 2, 29}},
		{"days since 2000-01-01", "proleptic_gregorian", 60, Date{2000, 3, 1}},
		{"hours since 2015-01-01 00:00:00", "standard", 36, Date{2015, 1, 2}},
		{"days since 1850-01-01 00:00:00", "noleap", 365 * 165, Date{2015, 1, 1}},
		{"days since 1850-01-01", "365_day", 59, Date{1850, 3, 1}},
		{"days since 1850-01-01", "noleap", 15.5, Date{1850, 1, 16}},
		{"days since 1850-01-01", "noleap", -1, Date{1849, 12, 31}},
		{"days since 1850-01-01", "all_leap", 59, Date{1850, 2, 29}},
		{"days since 1850-01-01", "360_day", 59, Date{1850, 2, 30}},
		{"days since 1850-01-01", "360_day", 360, Date{1851, 1, 1}},
		{"seconds since 1970-01-01T00:00:00Z", "standard", 86400 * 31, Date{1970, 2, 1}},
		{"minutes since 1970-01-01 12:00", "standard", 720, Date{1970, 1, 2}},
	} {
		u, err := ParseTimeUnits(test.units, test.calendar)
		if err != nil {
			t.Errorf("%s (%s): %v", test.units, test.calendar, err)
			continue
		}
		if have := u.Date(test.val); have != test.want {
			t.Errorf("%s (%s) %g: have %+v, want %+v", test.units, test.calendar, test.val, have, test.want)
		}
	}
}

func TestTimeUnitsInvalid(t *testing.T) {
	for _, test := range []struct{ units, calendar string }{
		{"days", "standard"},
		{"fortnights since 1850-01-01", "standard"},
		{"days since 1850-01", "standard"},
		{"days since 1850-02-29", "noleap"},
		{"days since 1850-01-01", "julian"},
		{"days since 1850-01-01 aa:00", "standard"},
	} {
		if _, err := ParseTimeUnits(test.units, test.calendar); err == nil {
			t.Errorf("%s (%s): expected an error", test.units, test.calendar)
		}
	}
}
