package tokens

import "unicode/utf8"

// Estimate approximates the model token count of text: a token per four
// characters plus half a token per whitespace separator.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	whitespace := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\n', '\t':
			whitespace++
		}
	}

	return int(float64(utf8.RuneCountInString(text))/4 + float64(whitespace)/2)
}
