package quiz

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	errDivideByZero = errors.New("division by zero")
	errIntRange     = errors.New("integer literal out of int range")
	errIncDec       = errors.New("increment and decrement operators are not evaluated")
)

// exprCharset is checked before any parsing. Anything else means the
// expression is not evaluated at all.
var exprCharset = regexp.MustCompile(`^[0-9xX+\-*/()\s]+$`)

// evalJavaInt evaluates expr with Java int semantics: 32-bit wrap-around,
// division truncating toward zero, * and / binding tighter than + and -,
// left associative. x and X both refer to the variable.
func evalJavaInt(expr string, x int32) (int32, error) {
	if !exprCharset.MatchString(expr) {
		return 0, fmt.Errorf("expression contains characters outside the arithmetic whitelist")
	}
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &exprParser{toks: toks, x: x}
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("unexpected %q at token %d", p.toks[p.pos].text, p.pos)
	}
	return v, nil
}

type tokenKind int

const (
	tokNum tokenKind = iota
	tokVar
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  int32
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, err := parseIntLiteral(s[i:j])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNum, text: s[i:j], num: n})
			i = j
		case c == 'x' || c == 'X':
			toks = append(toks, token{kind: tokVar, text: string(c)})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			// Java reads ++ and -- as increment and decrement. Spaced pairs are
			// rejected too rather than guessing at the tokenization.
			if (c == '+' || c == '-') && len(toks) > 0 && toks[len(toks)-1].text == string(c) {
				return nil, errIncDec
			}
			toks = append(toks, token{kind: tokOp, text: string(c)})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	if len(toks) == 0 {
		return nil, errors.New("empty expression")
	}
	return toks, nil
}

func parseIntLiteral(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > math.MaxInt32 {
		return 0, errIntRange
	}
	return int32(n), nil
}

type exprParser struct {
	toks []token
	pos  int
	x    int32
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) parseSum() (int32, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseProduct() (int32, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, errDivideByZero
		}
		// Go's int32 division truncates toward zero and MinInt32 / -1 wraps,
		// both exactly as in Java.
		left /= right
	}
}

func (p *exprParser) parseUnary() (int32, error) {
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (int32, error) {
	t, ok := p.peek()
	if !ok {
		return 0, errors.New("unexpected end of expression")
	}
	p.pos++
	switch t.kind {
	case tokNum:
		return t.num, nil
	case tokVar:
		return p.x, nil
	case tokLParen:
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected %q", t.text)
	}
}
