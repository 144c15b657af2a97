package search

import "strings"

const maxQueryLength = 100

// SanitizeLikePattern prepares user input for use inside a LIKE pattern.
// The wildcard characters % and _ match anything in LIKE, so even with
// parameterized queries user input has to be escaped to be treated
// literally. The escape character is backslash and queries using the
// result must declare it with ESCAPE '\'.
func SanitizeLikePattern(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > maxQueryLength {
		input = input[:maxQueryLength]
	}
	if input == "" {
		return ""
	}

	input = strings.ReplaceAll(input, `\`, `\\`)
	input = strings.ReplaceAll(input, `%`, `\%`)
	input = strings.ReplaceAll(input, `_`, `\_`)

	return input
}

// BuildContainsPattern creates a LIKE pattern matching the input anywhere
// in the target column.
func BuildContainsPattern(userInput string) string {
	sanitized := SanitizeLikePattern(userInput)
	if sanitized == "" {
		return ""
	}
	return "%" + sanitized + "%"
}
