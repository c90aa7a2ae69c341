// Package extract recovers structured data from free-form model replies.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/models"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Object parses raw as a JSON object. It tries the whole text, then the span
// from the first '{' to the last '}', then that span without trailing commas.
func Object(raw string) (map[string]any, bool) {
	if obj, ok := decodeObject(raw); ok {
		return obj, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	span := raw[start : end+1]
	if obj, ok := decodeObject(span); ok {
		return obj, true
	}
	return decodeObject(trailingCommaRe.ReplaceAllString(span, "$1"))
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Grading maps a grading reply onto a GradingResult. Missing or mistyped
// fields take defaults; an unparseable reply becomes the explanation with
// mistake type "unknown".
func Grading(raw, unitHint string) models.GradingResult {
	log := logger.Default().WithPrefix("extract")

	obj, ok := Object(raw)
	if !ok {
		log.Warn("grading reply is not a JSON object (%d bytes)", len(raw))
		return models.GradingResult{
			IsCorrect:   models.CorrectnessUnknown,
			Explanation: strings.TrimSpace(raw),
			MistakeType: "unknown",
			Unit:        unitHint,
			Drills:      []models.Drill{},
			Source:      models.GradingSourceModel,
		}
	}

	res := models.GradingResult{
		IsCorrect:     correctness(obj["is_correct"]),
		CorrectAnswer: str(obj["correct_answer"]),
		Explanation:   str(obj["explanation"]),
		MistakeType:   str(obj["mistake_type"]),
		Unit:          str(obj["unit"]),
		Topic:         str(obj["topic"]),
		Drills:        drills(obj["drills"]),
		Source:        models.GradingSourceModel,
	}
	if res.Unit == "" {
		res.Unit = unitHint
	}
	return res
}

func correctness(v any) models.Correctness {
	switch b := v.(type) {
	case bool:
		return models.CorrectnessOf(b)
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "correct":
			return models.CorrectnessCorrect
		case "false", "no", "incorrect":
			return models.CorrectnessIncorrect
		}
	}
	return models.CorrectnessUnknown
}

// str renders scalars as text; objects and arrays are ignored.
func str(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return fmt.Sprint(s)
	case bool:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func drills(v any) []models.Drill {
	out := []models.Drill{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if len(out) == models.MaxDrills {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		d := models.Drill{Question: str(m["q"]), Answer: str(m["a"])}
		if d.Question == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}
