package models

import "encoding/json"

// Correctness is a tri-state grade: the model may fail to say.
type Correctness int8

const (
	CorrectnessUnknown Correctness = iota
	CorrectnessCorrect
	CorrectnessIncorrect
)

// CorrectnessOf converts a boolean grade.
func CorrectnessOf(correct bool) Correctness {
	if correct {
		return CorrectnessCorrect
	}
	return CorrectnessIncorrect
}

func (c Correctness) String() string {
	switch c {
	case CorrectnessCorrect:
		return "correct"
	case CorrectnessIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// MarshalJSON renders true, false or null.
func (c Correctness) MarshalJSON() ([]byte, error) {
	switch c {
	case CorrectnessCorrect:
		return []byte("true"), nil
	case CorrectnessIncorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (c *Correctness) UnmarshalJSON(b []byte) error {
	var v *bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*c = CorrectnessUnknown
		return nil
	}
	*c = CorrectnessOf(*v)
	return nil
}

// Drill is a follow-up practice question targeting the same mistake.
type Drill struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// GradingSource records who decided the grade.
type GradingSource string

const (
	GradingSourceRule  GradingSource = "rule"
	GradingSourceModel GradingSource = "model"
)

// GradingResult is built once per grading call and only passed onward.
type GradingResult struct {
	IsCorrect     Correctness   `json:"is_correct"`
	CorrectAnswer string        `json:"correct_answer"`
	Explanation   string        `json:"explanation"`
	MistakeType   string        `json:"mistake_type"`
	Unit          string        `json:"unit"`
	Topic         string        `json:"topic"`
	Drills        []Drill       `json:"drills"`
	Source        GradingSource `json:"source"`
}

// MaxDrills caps the drills kept from a model reply.
const MaxDrills = 3
