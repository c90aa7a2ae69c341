// Package quiz grades the narrow class of generated questions whose answer
// can be computed without the language model: an int variable x declared with
// a literal and reassigned once to an arithmetic expression.
package quiz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	declRe = regexp.MustCompile(`\bint\s+x\s*=\s*([+-]?\s*\d+)\s*;`)
	// The leading class keeps "maxx = " and "obj.x = " from matching; [^=;]
	// keeps "x == 3" out.
	assignRe  = regexp.MustCompile(`(?:^|[^\w.])x\s*=\s*([^=;][^;]*);`)
	controlRe = regexp.MustCompile(`\b(?:if|else|for|while|do|switch|case)\b`)
)

// Trace is a resolved question: x starts at Initial and becomes Value after
// Expression is evaluated.
type Trace struct {
	Initial    int32
	Expression string
	Value      int32
}

// Explain renders the trace as a short worked explanation.
func (t Trace) Explain() string {
	return fmt.Sprintf(
		"x starts at %d. Evaluating x = %s with Java int arithmetic (* and / before + and -, left to right, integer division truncates toward zero) gives %d.",
		t.Initial, t.Expression, t.Value,
	)
}

// TraceQuestion finds the first "int x = <literal>;" and the first "x = <expr>;"
// after it and evaluates the expression. ok is false when either statement is
// missing, the reassignment may not run exactly once, the expression fails the
// character whitelist, or evaluation fails.
func TraceQuestion(question string) (Trace, bool) {
	decl := declRe.FindStringSubmatchIndex(question)
	if decl == nil {
		return Trace{}, false
	}
	initial, err := parseSigned(question[decl[2]:decl[3]])
	if err != nil {
		return Trace{}, false
	}

	rest := question[decl[1]:]
	m := assignRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return Trace{}, false
	}
	xAt := m[0] + strings.IndexByte(rest[m[0]:m[1]], 'x')
	if guarded(rest[:xAt]) {
		return Trace{}, false
	}
	expr := strings.TrimSpace(rest[m[2]:m[3]])
	if !exprCharset.MatchString(expr) {
		return Trace{}, false
	}

	v, err := evalJavaInt(expr, initial)
	if err != nil {
		return Trace{}, false
	}
	return Trace{Initial: initial, Expression: expr, Value: v}, true
}

// guarded reports whether code between the declaration and the reassignment
// could make the reassignment conditional or repeated.
func guarded(between string) bool {
	if controlRe.MatchString(between) {
		return true
	}
	return strings.HasSuffix(strings.TrimSpace(between), ")")
}

// Resolve returns the final value of x, or false when the question is out of scope.
func Resolve(question string) (int32, bool) {
	t, ok := TraceQuestion(question)
	return t.Value, ok
}

func parseSigned(s string) (int32, error) {
	s = strings.Join(strings.Fields(s), "")
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errIntRange
	}
	return int32(n), nil
}

// Verdict is the rule-based grade of one answer.
type Verdict struct {
	Trace         Trace
	Letter        string // option letter holding the computed value, if any
	CorrectAnswer string // "B (8)" or "8"
	Learner       Answer
	Correct       bool
}

// Verify grades answer against the computed value of question. ok is false when
// the question is out of scope and the caller must fall back to model grading.
func Verify(question, answer string) (Verdict, bool) {
	trace, ok := TraceQuestion(question)
	if !ok {
		return Verdict{}, false
	}

	v := Verdict{
		Trace:         trace,
		CorrectAnswer: strconv.FormatInt(int64(trace.Value), 10),
		Learner:       NormalizeAnswer(answer),
	}
	for _, opt := range ParseOptions(question) {
		if opt.Value != nil && *opt.Value == trace.Value {
			v.Letter = opt.Letter
			v.CorrectAnswer = fmt.Sprintf("%s (%d)", opt.Letter, trace.Value)
			break
		}
	}

	switch {
	case v.Letter != "" && v.Learner.Letter != "":
		v.Correct = v.Learner.Letter == v.Letter
	case v.Learner.Value != nil:
		v.Correct = *v.Learner.Value == int64(trace.Value)
	}
	return v, true
}
