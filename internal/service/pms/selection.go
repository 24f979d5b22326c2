package pms

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSelection turns user input such as "1, 3-5 7" into 1-based row numbers.
// Ranges are inclusive and may be written backwards. Duplicates are dropped and the
// first-seen order is kept. "all" or "*" selects rows 1..maxValue.
func ParseSelection(input string, maxValue int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptySelection
	}

	switch strings.ToLower(input) {
	case "all", "*":
		if maxValue <= 0 {
			return nil, ErrSelectionOutOfRange
		}

		result := make([]int, maxValue)
		for i := range result {
			result[i] = i + 1
		}

		return result, nil
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	var (
		seen   = make(map[int]struct{}, len(fields))
		result = make([]int, 0, len(fields))
	)

	for _, field := range fields {
		from, to, err := parseSelectionField(field)
		if err != nil {
			return nil, err
		}

		step := 1
		if from > to {
			step = -1
		}

		for value := from; ; value += step {
			if value < 1 || value > maxValue {
				return nil, fmt.Errorf("%w: %d (1-%d)", ErrSelectionOutOfRange, value, maxValue)
			}

			if _, ok := seen[value]; !ok {
				seen[value] = struct{}{}
				result = append(result, value)
			}

			if value == to {
				break
			}
		}
	}

	if len(result) == 0 {
		return nil, ErrEmptySelection
	}

	return result, nil
}

// parseSelectionField parses "n" or "a-b".
func parseSelectionField(field string) (int, int, error) {
	left, right, isRange := strings.Cut(field, "-")

	from, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSelection, field)
	}

	if !isRange {
		return from, from, nil
	}

	to, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSelection, field)
	}

	return from, to, nil
}
