package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/csatutor/internal/extract"
	"github.com/vytor/csatutor/internal/models"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"plain object", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"wrapped in prose with trailing comma", `here is json: {"a":1,}`, map[string]any{"a": float64(1)}},
		{"markdown fence", "```json\n{\"ok\": true}\n```", map[string]any{"ok": true}},
		{"trailing comma in array", `{"d":[1,2,],}`, map[string]any{"d": []any{float64(1), float64(2)}}},
		{"nested braces", `x {"a":{"b":"c"}} y`, map[string]any{"a": map[string]any{"b": "c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extract.Object(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "no json here", "} backwards {", `{"a": }`, `[1,2]`, "null"} {
		_, ok := extract.Object(raw)
		assert.False(t, ok, raw)
	}
}

func TestGrading_FullReply(t *testing.T) {
	raw := `Sure! {"is_correct": false, "correct_answer": "B", "explanation": "x ends at 8",
		"mistake_type": "operator precedence", "unit": "Unit2 Control Structures", "topic": "int math",
		"drills": [{"q": "q1", "a": "a1"}, "junk", {"a": "no question"}, {"q": "q2", "a": "a2"},
		{"q": "q3"}, {"q": "q4", "a": "a4"}]}`

	res := extract.Grading(raw, "Unit1 Java Basics")

	assert.Equal(t, models.CorrectnessIncorrect, res.IsCorrect)
	assert.Equal(t, "B", res.CorrectAnswer)
	assert.Equal(t, "x ends at 8", res.Explanation)
	assert.Equal(t, "operator precedence", res.MistakeType)
	assert.Equal(t, "Unit2 Control Structures", res.Unit)
	assert.Equal(t, "int math", res.Topic)
	assert.Equal(t, models.GradingSourceModel, res.Source)
	assert.Equal(t, []models.Drill{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: ""},
	}, res.Drills)
}

func TestGrading_PartialReplyUsesDefaults(t *testing.T) {
	res := extract.Grading(`{"is_correct": "yes", "drills": "none", "topic": 3}`, "Unit4 Arrays")

	assert.Equal(t, models.CorrectnessCorrect, res.IsCorrect)
	assert.Empty(t, res.CorrectAnswer)
	assert.Empty(t, res.Explanation)
	assert.Empty(t, res.MistakeType)
	assert.Equal(t, "Unit4 Arrays", res.Unit)
	assert.Equal(t, "3", res.Topic)
	assert.NotNil(t, res.Drills)
	assert.Empty(t, res.Drills)
}

func TestGrading_NullCorrectnessIsUnknown(t *testing.T) {
	res := extract.Grading(`{"is_correct": null}`, "")
	assert.Equal(t, models.CorrectnessUnknown, res.IsCorrect)
}

func TestGrading_Unparseable(t *testing.T) {
	res := extract.Grading("  The answer looks right to me.  ", "Unit6 Recursion")

	assert.Equal(t, models.CorrectnessUnknown, res.IsCorrect)
	assert.Equal(t, "The answer looks right to me.", res.Explanation)
	assert.Equal(t, "unknown", res.MistakeType)
	assert.Equal(t, "Unit6 Recursion", res.Unit)
	assert.Empty(t, res.Drills)
}
