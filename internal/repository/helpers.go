package repository

import (
	"fmt"
	"strings"
	"time"
)

// joinCodes stores a WBS dependency list as a comma-separated column.
func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

// splitCodes is the inverse of joinCodes. An empty column yields nil.
func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return formatTime(time.Now())
}
