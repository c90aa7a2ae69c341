package models

import "time"

// WrongbookEntry is a persisted graded attempt. Entries are never updated.
type WrongbookEntry struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Unit          string    `json:"unit"`
	Topic         string    `json:"topic"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	MistakeType   string    `json:"mistake_type"`
	NextDrill     string    `json:"next_drill"`
}

type WrongbookFilter struct {
	Unit        string
	MistakeType string
	Limit       int
}

const (
	DefaultWrongbookLimit = 200
	MaxWrongbookLimit     = 500
)
