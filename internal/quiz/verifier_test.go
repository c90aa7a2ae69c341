package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/csatutor/internal/quiz"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     int32
	}{
		{
			name:     "precedence then left to right",
			question: "int x = 5; x = x + 3 * 2 - 4;",
			want:     7,
		},
		{
			name:     "integer division",
			question: "int x = 10; x = x - 6 / 2 + 1;",
			want:     8,
		},
		{
			name:     "division truncates toward zero",
			question: "int x = -7; x = x / 2;",
			want:     -3,
		},
		{
			name:     "parentheses",
			question: "int x = 3; x = (x + 1) * (x - 1);",
			want:     8,
		},
		{
			name:     "unary minus",
			question: "int x = 4; x = -x + 10;",
			want:     6,
		},
		{
			name:     "left associative subtraction and division",
			question: "int x = 100; x = x / 5 / 2 - 3 - 2;",
			want:     5,
		},
		{
			name:     "upper case variable in expression",
			question: "int x = 6; x = X * 2;",
			want:     12,
		},
		{
			name:     "int overflow wraps",
			question: "int x = 2147483647; x = x + 1;",
			want:     -2147483648,
		},
		{
			name: "java code block",
			question: "What is printed?\n```java\nint x = 9;\nx = x * 2 - 7 / 3;\nSystem.out.println(x);\n```\n" +
				"A. 16\nB. 15\nC. 17\nD. 18",
			want: 16,
		},
		{
			name:     "equality test is not an assignment",
			question: "int x = 5; boolean same = x == 5; x = x * 2;",
			want:     10,
		},
		{
			name:     "spaced binary minus before unary minus in parentheses",
			question: "int x = 5; x = x - (-3);",
			want:     8,
		},
		{
			name:     "first reassignment wins",
			question: "int x = 1; x = x + 1; x = x * 100;",
			want:     2,
		},
		{
			name:     "negative initial literal",
			question: "int x = -4; x = x * x;",
			want:     16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := quiz.Resolve(tt.question)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"no declaration", "x = 3 + 4;"},
		{"no reassignment", "int x = 5; System.out.println(x);"},
		{"plain prose", "Which keyword creates an object in Java?"},
		{"method call rejected", "int x = 5; x = Math.abs(x);"},
		{"modulo rejected", "int x = 5; x = x % 3;"},
		{"other variable rejected", "int x = 5; x = y + 1;"},
		{"compound assignment ignored", "int x = 5; x += 3;"},
		{"division by zero", "int x = 5; x = x / (x - 5);"},
		{"literal out of int range", "int x = 1; x = 3000000000 + x;"},
		{"initial literal out of int range", "int x = 3000000000; x = x + 1;"},
		{"implicit multiplication", "int x = 1; x = 2x;"},
		{"unbalanced parentheses", "int x = 1; x = (x + 1;"},
		{"dangling operator", "int x = 1; x = x +;"},
		{"double declared elsewhere", "double x = 1; x = x + 1;"},
		{"field access not matched", "int x = 1; obj.x = 5;"},
		{"pre-increment", "int x = 5;\nx = ++x * 2;\nA. 10\nB. 12"},
		{"pre-decrement", "int x = 5; x = --x;"},
		{"post-increment", "int x = 5; x = x++ + 1;"},
		{"spaced double minus", "int x = 5; x = x - -3;"},
		{"guarded by if", "int x = 5; if (x > 10) x = x * 2;"},
		{"guarded by if without spaces", "int x = 5; if(x>10)x = x * 2;"},
		{"inside for body", "int x = 5; for (int i = 0; i < 3; i++) x = x + 1;"},
		{"inside while block", "int x = 5; while (x < 20) {\n  x = x * 2;\n}"},
		{"else branch", "int x = 5; if (x > 1) { System.out.println(x); } else x = x - 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := quiz.Resolve(tt.question)
			assert.False(t, ok)
		})
	}
}

func TestTraceQuestion_Explain(t *testing.T) {
	trace, ok := quiz.TraceQuestion("int x = 10; x = x - 6 / 2 + 1;")
	require.True(t, ok)

	assert.Equal(t, int32(10), trace.Initial)
	assert.Equal(t, "x - 6 / 2 + 1", trace.Expression)
	assert.Equal(t, int32(8), trace.Value)
	assert.Contains(t, trace.Explain(), "gives 8")
}

const optionQuestion = "int x = 10; x = x - 6 / 2 + 1;\nWhat is x?\nA. 7\nB. 8\nC. 9\nD. 10"

func TestVerify_MultipleChoice(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"lower case letter", "b", true},
		{"upper case letter", "B", true},
		{"letter inside sentence", "I think it is B.", true},
		{"wrong letter", "C", false},
		{"wrong number", "9", false},
		{"right number without letter", "8", true},
		{"empty", "", false},
		{"no usable token", "no idea", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := quiz.Verify(optionQuestion, tt.answer)
			require.True(t, ok)
			assert.Equal(t, "B (8)", v.CorrectAnswer)
			assert.Equal(t, "B", v.Letter)
			assert.Equal(t, int32(8), v.Trace.Value)
			assert.Equal(t, tt.correct, v.Correct)
		})
	}
}

func TestVerify_NoMatchingOption(t *testing.T) {
	q := "int x = 5; x = x + 3 * 2 - 4;\nA. 6\nB. 8\nC. 11\nD. 5"

	v, ok := quiz.Verify(q, "7")
	require.True(t, ok)
	assert.Equal(t, "7", v.CorrectAnswer)
	assert.Empty(t, v.Letter)
	assert.True(t, v.Correct)

	v, ok = quiz.Verify(q, "A")
	require.True(t, ok)
	assert.False(t, v.Correct, "a letter cannot match when no option holds the value")
}

func TestVerify_FreeResponse(t *testing.T) {
	v, ok := quiz.Verify("int x = 5; x = x + 3 * 2 - 4; What is the value of x?", "x = 7")
	require.True(t, ok)
	assert.Equal(t, "7", v.CorrectAnswer)
	assert.True(t, v.Correct)

	v, ok = quiz.Verify("int x = 5; x = x + 3 * 2 - 4;", "-7")
	require.True(t, ok)
	assert.False(t, v.Correct)
}

func TestVerify_OutOfScope(t *testing.T) {
	_, ok := quiz.Verify("What does the static keyword mean?", "B")
	assert.False(t, ok)
}
