package services

import (
	"fmt"
	"strings"

	"github.com/vytor/csatutor/internal/llm"
	"github.com/vytor/csatutor/internal/models"
)

// Sampling temperatures per call type.
const (
	questionTemperature = 0.6
	gradingTemperature  = 0.2
	chatTemperature     = 0.4
)

// chatContext is how many recent chat messages are sent with each turn.
const chatContext = 6

const questionSystemPrompt = "You are an AP Computer Science A (Java) question setter. " +
	"Write exactly one question in AP CSA style: the stem and, when it fits, four options labelled A. to D. on their own lines. " +
	"Keep it short. Do not include the answer, a solution or an explanation."

const chatSystemPrompt = "You are an AP Computer Science A (Java) tutor. " +
	"Answer in short sentences and bullet points, conclusion first and then the reason, with one small example. " +
	"For code questions point out the common pitfalls."

// leakMarkers start the answer or solution part of a generated question.
var leakMarkers = []string{
	"标准答案", "正确答案", "答案：", "答案:", "解析",
	"Answer:", "Correct answer", "Explanation:", "Solution:",
}

func questionMessages(unit, topic, difficulty string) []llm.Message {
	user := fmt.Sprintf("Write one %s question for %s.", difficulty, unit)
	if topic != "" {
		user += " Focus on: " + topic + "."
	}
	return []llm.Message{
		{Role: models.RoleSystem, Content: questionSystemPrompt},
		{Role: models.RoleUser, Content: user},
	}
}

func gradingMessages(question, answer, unitHint string) []llm.Message {
	system := "You are an AP Computer Science A (Java) tutor grading a student's answer. You must:\n" +
		"1) decide whether the answer is correct; 2) give the correct answer; 3) explain it in the fewest steps;\n" +
		"4) name the mistake type, for example: concept confusion, boundary condition, loop count, reference vs value, array index, recursion base case, constructor;\n" +
		"5) write 3 drills targeting the same mistake, each with its answer (a).\n" +
		"Reply with strict JSON only: " +
		`{"is_correct": boolean, "correct_answer": string, "explanation": string, "mistake_type": string, "unit": string, "topic": string, "drills": [{"q": string, "a": string}]}` + "\n" +
		"unit must be one of [" + strings.Join(models.Units, ", ") + "]"
	if unitHint != "" {
		system += " or the one closest to " + unitHint
	}
	system += "."

	user := fmt.Sprintf("Question:\n%s\n\nStudent answer:\n%s", question, answer)
	if unitHint != "" {
		user += "\n\nUnit hint: " + unitHint
	}
	return []llm.Message{
		{Role: models.RoleSystem, Content: system},
		{Role: models.RoleUser, Content: user},
	}
}

// cutLeak drops everything from the first answer marker on.
func cutLeak(question string) (string, bool) {
	cut := len(question)
	for _, m := range leakMarkers {
		if i := strings.Index(question, m); i >= 0 && i < cut {
			cut = i
		}
	}
	if cut == len(question) {
		return strings.TrimSpace(question), false
	}
	return strings.TrimSpace(question[:cut]), true
}
