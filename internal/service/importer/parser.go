// Package importer turns loosely formatted schedule text (pasted tables, OCR
// output) into routine candidates. Parsing is best-effort: lines it cannot
// make sense of are dropped without error.
package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/romanzh1/daylog/internal/models"
)

const defaultTitle = "Routine Item"

// Weekdays in the order they are matched against a line.
var Weekdays = []string{"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var (
	rangePattern  = regexp.MustCompile(`(\d{1,2}[:.]\d{2}\s*(?:[APap][Mm])?)\s*[-–]\s*(\d{1,2}[:.]\d{2}\s*(?:[APap][Mm])?)`)
	singlePattern = regexp.MustCompile(`(\d{1,2}[:.]\d{2}\s*(?:[APap][Mm])?)|(\d{1,2}\s*[APap][Mm])`)
	coursePattern = regexp.MustCompile(`[A-Z]{2,4}\s*\d{3}`)
)

type Candidate struct {
	Title string `json:"title"`
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Parse scans text line by line and returns one candidate per line that names
// a weekday and at least one time.
func Parse(text string) []Candidate {
	var items []Candidate

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}

		day := findWeekday(line)
		if day == "" {
			continue
		}

		start, end := findTimes(line)
		if start == "" {
			continue
		}

		items = append(items, Candidate{
			Title: findTitle(line, day),
			Day:   day,
			Start: start,
			End:   end,
		})
	}

	return items
}

func findWeekday(line string) string {
	lower := strings.ToLower(line)
	for _, day := range Weekdays {
		if strings.Contains(lower, strings.ToLower(day)) {
			return day
		}
	}
	return ""
}

func findTimes(line string) (start, end string) {
	if m := rangePattern.FindStringSubmatch(line); m != nil {
		return normalizeTime(m[1]), normalizeTime(m[2])
	}

	var found []string
	for _, m := range singlePattern.FindAllStringSubmatch(line, -1) {
		switch {
		case m[1] != "":
			found = append(found, m[1])
		case m[2] != "":
			found = append(found, m[2])
		}
	}

	switch {
	case len(found) >= 2:
		return normalizeTime(found[0]), normalizeTime(found[1])
	case len(found) == 1:
		t := normalizeTime(found[0])
		return t, t
	}
	return "", ""
}

func normalizeTime(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ".", ":"))
}

func findTitle(line, day string) string {
	if code := coursePattern.FindString(line); code != "" {
		return code
	}

	before := line
	if i := strings.Index(line, day); i >= 0 {
		before = line[:i]
	}

	title := strings.Trim(before, " 0123456789\t-|.")
	if title == "" {
		return defaultTitle
	}
	return title
}

var clockLayouts = []string{"3:04pm", "3pm", "15:04"}

// ParseClock reads a time of day such as "09:35am", "9:35 PM", "9pm" or "14:05".
func ParseClock(s string) (models.Clock, error) {
	v := strings.ToLower(strings.Join(strings.Fields(s), ""))
	v = normalizeTime(v)

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return models.NewClock(t.Hour(), t.Minute()), nil
		}
	}

	return "", fmt.Errorf("parse time of day %q", s)
}
