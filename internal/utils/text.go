package utils

import (
	"fmt"
	"math"
	"mime"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

//nolint:gochecknoglobals // Pre-compiled patterns used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile("^application/json$"),
	regexp.MustCompile(`^application/(x-www-form-urlencoded|javascript)$`),
}

// NormalizeQuery lower-cases a search term and collapses its whitespace.
// Two queries that normalize to the same string return the same results.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if utf8.RuneCountInString(s) <= width {
		return s
	}

	runes := []rune(s)
	if width == 1 {
		return string(runes[:1])
	}

	return string(runes[:width-1]) + "…"
}

// FormatDuration renders a track length as m:ss, or h:mm:ss for long tracks.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "-:--"
	}

	totalSeconds := int64(math.Round(d.Seconds()))
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ExtractNamedGroup returns the value of a named capturing group, or "" when there is no match.
func ExtractNamedGroup(re *regexp.Regexp, groupName, input string) string {
	match := re.FindStringSubmatch(input)
	if match == nil {
		return ""
	}

	index := re.SubexpIndex(groupName)
	if index < 0 || index >= len(match) {
		return ""
	}

	return match[index]
}

// IsTextContentType checks whether a content type is text-based and safe to log.
// The charset, if present, must be utf-8 or us-ascii.
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// JoinUnique joins the distinct non-empty values with sep, keeping the first occurrence order.
func JoinUnique(values []string, sep string) string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		if value == "" {
			continue
		}

		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		result = append(result, value)
	}

	return strings.Join(result, sep)
}
