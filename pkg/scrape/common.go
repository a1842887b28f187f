package scrape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var seasonDigits = map[string]int{
	"January": 1,
	"Spring":  2,
	"Summer":  6,
	"Fall":    8,
}

// TermToId takes a term string like "Fall 2022" and determines its
// corresponding SIS term code (e.g: 1228)
func TermToId(term string) (int, error) {
	split := strings.Split(strings.TrimSpace(term), " ")
	if len(split) != 2 {
		return 0, errors.New(term + " is not a valid term")
	}

	season, ok := seasonDigits[split[0]]
	if !ok {
		return 0, errors.New(term + " is not a valid term")
	}
	year, err := strconv.Atoi(split[1])
	if err != nil || year < 1900 || year > 2899 {
		return 0, errors.New(term + " is not a valid term")
	}

	// The leading digit counts centuries since 1900
	century := (year - 1900) / 100
	return century*1000 + (year%100)*10 + season, nil
}

// TermFromId is the inverse of TermToId: 1228 becomes "Fall 2022".
func TermFromId(id int) (string, error) {
	if id < 0 || id > 9999 {
		return "", fmt.Errorf("%d is not a valid term code", id)
	}
	seasonDigit := id % 10
	year := 1900 + (id/1000)*100 + (id/10)%100
	for season, digit := range seasonDigits {
		if digit == seasonDigit {
			return fmt.Sprintf("%s %d", season, year), nil
		}
	}
	return "", fmt.Errorf("%d is not a valid term code", id)
}
