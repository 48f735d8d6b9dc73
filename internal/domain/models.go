package domain

import "time"

// Question is a curated FAQ entry. It is also the wire shape the answer
// service returns for every asked question, which is why the json tags keep
// the single-word field names the widget reads (questiontext / answertext).
type Question struct {
	ID           int64     `json:"id" db:"id"`
	QuestionText string    `json:"questiontext" db:"questiontext"`
	AnswerText   string    `json:"answertext" db:"answertext"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MaxTextLength is the column width for questiontext and answertext.
const MaxTextLength = 500
