package web

import "unicode"

// isSecureRune accepts letters, digits and a small set of safe symbols.
func isSecureRune(r rune) bool {
	allowedSafeSymbols := map[rune]bool{
		'_': true,
		'-': true,
		'.': true,
		'@': true,
		'#': true,
		' ': true,
		':': true,
		'/': true,
		'(': true,
		')': true,
	}

	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return allowedSafeSymbols[r]
}

// verifyShortText bounds free-form identifiers and labels coming off the
// wire. Titles and notes carry CJK text, so letters mean any script.
func verifyShortText(s string, maxLen int) bool {
	if len(s) == 0 || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if !isSecureRune(r) {
			return false
		}
	}
	return true
}

// verifyID bounds opaque ids without restricting their alphabet beyond
// length; ids are generated server side and only echoed back.
func verifyID(s string) bool {
	return len(s) > 0 && len(s) <= 64
}
