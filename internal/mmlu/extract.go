package mmlu

import (
	"regexp"
	"strings"
	"unicode"
)

// answerPatterns are the structured-marker patterns tried against the
// normalized (trimmed, uppercased) response. Order is a behavioral contract:
// the first pattern that matches wins, even when a later pattern would also
// match. Reordering silently changes scored outcomes on ambiguous responses.
var answerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\BOXED\{([ABCD])\}`),
	regexp.MustCompile(`答案是\s*([ABCD])`),
	regexp.MustCompile(`选择\s*([ABCD])`),
	regexp.MustCompile(`答案：\s*([ABCD])`),
	regexp.MustCompile(`选择：\s*([ABCD])`),
	regexp.MustCompile(`THE CORRECT ANSWER IS\s*([ABCD])`),
	regexp.MustCompile(`ANSWER:\s*([ABCD])`),
	regexp.MustCompile(`ANSWER IS\s*([ABCD])`),
	regexp.MustCompile(`^([ABCD])\.?$`),
	regexp.MustCompile(`^([ABCD])\s*[-:]`),
	regexp.MustCompile(`^\s*([ABCD])\s*$`),
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lastStandaloneLetter returns the final A-D whose neighbors are both
// non-word runes. The boundary is Unicode-aware: CJK characters are word
// runes, so a letter embedded in Chinese prose is not standalone. RE2's
// \b is ASCII-only and would accept exactly those letters, shifting
// scored outcomes on bilingual responses.
func lastStandaloneLetter(s string) (string, bool) {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case 'A', 'B', 'C', 'D':
		default:
			continue
		}
		if i > 0 && isWordRune(runes[i-1]) {
			continue
		}
		if i < len(runes)-1 && isWordRune(runes[i+1]) {
			continue
		}
		return string(runes[i]), true
	}
	return "", false
}

// ExtractAnswer derives a choice label from free-form model output.
// The cascade, in strict precedence order:
//  1. the whole normalized text is exactly one letter
//  2. structured-marker patterns (answerPatterns, in order)
//  3. the last standalone letter anywhere in the text, delimited by
//     non-word runes on both sides (models often restate options before
//     concluding, so the final standalone letter is the most likely
//     true answer)
//  4. the first raw character that is A, B, C or D
//
// Returns ok=false when nothing matched. Never returns a letter outside
// {A,B,C,D} and never fails on unparseable input.
func ExtractAnswer(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	switch s {
	case "A", "B", "C", "D":
		return s, true
	}

	for _, re := range answerPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}

	if letter, ok := lastStandaloneLetter(s); ok {
		return letter, true
	}

	for _, c := range s {
		switch c {
		case 'A', 'B', 'C', 'D':
			return string(c), true
		}
	}

	return "", false
}
