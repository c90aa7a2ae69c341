package quiz

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	optionRe  = regexp.MustCompile(`(?m)^[ \t]*([A-D])[ \t]*[.):：][ \t]*(.*?)[ \t\r]*$`)
	bareIntRe = regexp.MustCompile(`^[+-]?\d+$`)
	letterRe  = regexp.MustCompile(`\b([A-Da-d])\b`)
	integerRe = regexp.MustCompile(`-?\d+`)
)

// Option is one multiple-choice line. Value is set when Text is a bare integer.
type Option struct {
	Letter string
	Text   string
	Value  *int32
}

// ParseOptions extracts "A. text" style lines (separators . ) : ：) in the
// order they appear. Only the first line for each letter is kept.
func ParseOptions(question string) []Option {
	var opts []Option
	seen := map[string]bool{}
	for _, m := range optionRe.FindAllStringSubmatch(question, -1) {
		letter := m[1]
		if seen[letter] {
			continue
		}
		seen[letter] = true

		opt := Option{Letter: letter, Text: m[2]}
		if bareIntRe.MatchString(opt.Text) {
			if n, err := parseSigned(opt.Text); err == nil {
				opt.Value = &n
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

// Answer is a learner answer reduced to what the verifier compares.
type Answer struct {
	Letter string // upper-case A-D, empty if none
	Value  *int64
}

// NormalizeAnswer takes the first standalone letter A-D (any case); failing
// that, the first integer token.
func NormalizeAnswer(answer string) Answer {
	if m := letterRe.FindStringSubmatch(answer); m != nil {
		return Answer{Letter: strings.ToUpper(m[1])}
	}
	if tok := integerRe.FindString(answer); tok != "" {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return Answer{Value: &n}
		}
	}
	return Answer{}
}

// String renders the normalized answer for logs and explanations.
func (a Answer) String() string {
	switch {
	case a.Letter != "":
		return a.Letter
	case a.Value != nil:
		return strconv.FormatInt(*a.Value, 10)
	default:
		return ""
	}
}
