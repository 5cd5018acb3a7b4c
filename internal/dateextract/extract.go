// Package dateextract finds calendar dates written as "<day> <month>" in free text.
// Only the last months of the year are recognised: sep, sept, oct, nov and dec.
package dateextract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`(?i)(\d{1,2})\s*(sep|sept|oct|nov|dec)`)

var monthCodes = map[string]string{
	"sep":  "09",
	"sept": "09",
	"oct":  "10",
	"nov":  "11",
	"dec":  "12",
}

// Extract returns the first date found in text as YYYY-MM-DD, using the current year
func Extract(text string) (string, bool) {
	return ExtractAt(text, time.Now())
}

// ExtractAt is Extract with an explicit reference time, so tests can pin the year.
// The day is not range-checked: "40 oct" yields YYYY-10-40.
func ExtractAt(text string, now time.Time) (string, bool) {
	match := datePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	day := match[1]
	if len(day) == 1 {
		day = "0" + day
	}
	month := monthCodes[strings.ToLower(match[2])]

	return fmt.Sprintf("%d-%s-%s", now.Year(), month, day), true
}

// Normalize builds the lowercased text scanned for a message's deadline
func Normalize(subject, body string) string {
	return strings.ToLower(subject + " " + body)
}
