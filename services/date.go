package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a date string in the strict ISO format used by HTML
// date inputs (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// lenientLayouts are tried in order for day-first spreadsheet exports.
var lenientLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
	"02.01.2006",
}

// ParseLenientDate parses day-first date text from spreadsheet exports.
// Empty or unparseable values return nil; callers decide whether that
// deserves a row warning.
func ParseLenientDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// registryLayouts are tried in order for the protocol registry files,
// which mix day-first, month-first and ISO dates.
var registryLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02",
}

// ParseRegistryDate parses a registry start date: the known layouts
// first, then a manual slash/dash split with short-year expansion.
func ParseRegistryDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range registryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}

	parts := strings.Split(strings.ReplaceAll(value, "-", "/"), "/")
	if len(parts) != 3 {
		return nil
	}
	year := parts[2]
	switch len(year) {
	case 2:
		year = "20" + year
	case 3:
		year = "2" + year
	}

	day, errDay := strconv.Atoi(parts[0])
	month, errMonth := strconv.Atoi(parts[1])
	yearNum, errYear := strconv.Atoi(year)
	if errDay != nil || errMonth != nil || errYear != nil {
		return nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(yearNum, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}
