package models

// Chat roles accepted by the language model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Units are the AP Computer Science A units questions are generated for.
var Units = []string{
	"Unit1 Java Basics",
	"Unit2 Control Structures",
	"Unit3 Object-Oriented Programming",
	"Unit4 Arrays",
	"Unit5 Inheritance and Polymorphism",
	"Unit6 Recursion",
}

// Difficulties accepted by question generation.
var Difficulties = []string{"easy", "medium", "hard"}

// Submission is the outcome of grading the session's current question.
type Submission struct {
	Result  GradingResult `json:"result"`
	EntryID int64         `json:"entry_id,omitempty"`
	Saved   bool          `json:"saved"`
}

// WeeklyPassword is the admin view of the current credential window.
type WeeklyPassword struct {
	Password     string `json:"password"`
	Window       string `json:"window"`
	NextRotation string `json:"next_rotation"`
	Timezone     string `json:"timezone"`
}
