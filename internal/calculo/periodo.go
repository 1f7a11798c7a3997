package calculo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var periodoRe = regexp.MustCompile(`^(\d{2})/(\d{4})$`)

// ParsePeriodo parses a strict MM/YYYY billing period and returns the first
// day of that month in loc. Months outside 01..12 are rejected.
func ParsePeriodo(periodo string, loc *time.Location) (time.Time, bool) {
	m := periodoRe.FindStringSubmatch(strings.TrimSpace(periodo))
	if m == nil {
		return time.Time{}, false
	}
	mes, _ := strconv.Atoi(m[1])
	anio, _ := strconv.Atoi(m[2])
	if mes < 1 || mes > 12 {
		return time.Time{}, false
	}
	return time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, loc), true
}

// FechaCorte resolves the billing cutoff date: the parsed period when valid,
// ahora otherwise (absent or malformed periods are not an error).
func FechaCorte(periodo string, ahora time.Time) time.Time {
	if t, ok := ParsePeriodo(periodo, ahora.Location()); ok {
		return t
	}
	return ahora
}

// FormatPeriodo renders t as MM/YYYY.
func FormatPeriodo(t time.Time) string {
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}
