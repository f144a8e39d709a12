package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseIntArg(name, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return parsed, nil
}

// parseWeeks accepts comma-separated week tokens, each a single index or an
// inclusive range: "1,2,5" or "1-5" or "1-3,7".
func parseWeeks(value string) ([]int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("weeks list is empty")
	}
	var weeks []int
	for _, token := range strings.Split(trimmed, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("empty week token in %q", value)
		}
		if low, high, ok := strings.Cut(token, "-"); ok {
			start, err := parseIntArg("week", low)
			if err != nil {
				return nil, err
			}
			end, err := parseIntArg("week", high)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("descending week range %q", token)
			}
			for week := start; week <= end; week++ {
				weeks = append(weeks, week)
			}
			continue
		}
		week, err := parseIntArg("week", token)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
