package models

// Episode holds the episode-level metadata the model extracts from a
// transcript.
type Episode struct {
	Series  *int     `json:"series,omitempty"`
	Episode *int     `json:"episode,omitempty"`
	Date    string   `json:"date,omitempty"`
	Teams   []string `json:"teams,omitempty"`
}

// Category tags a question with a primary subject and optional secondary
// subjects.
type Category struct {
	Primary   string   `json:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
}

// Attempt records one team's buzz on a starter question.
type Attempt struct {
	Team            string `json:"team,omitempty"`
	AttemptedAnswer string `json:"attempted_answer,omitempty"`
	Outcome         string `json:"outcome,omitempty"` // correct, incorrect, pass
}

// BonusPart is a single part (a, b or c) of a bonus question.
type BonusPart struct {
	Part            string `json:"part"`
	Text            string `json:"text,omitempty"`
	AttemptedAnswer string `json:"attempted_answer,omitempty"`
	CorrectAnswer   string `json:"correct_answer,omitempty"`
	Outcome         string `json:"outcome,omitempty"` // correct, incorrect, not_attempted
}

// Question types and modes.
const (
	QuestionTypeStarter = "starter"
	QuestionTypeBonus   = "bonus"

	QuestionModeText    = "text"
	QuestionModePicture = "picture"
	QuestionModeMusic   = "music"
)

// Question is one starter or bonus question. The two types share a record
// shape: starters carry QuestionText/Attempts/CorrectAnswer, bonuses carry
// IntroText/Parts.
type Question struct {
	QuestionNumber int    `json:"question_number"`
	Type           string `json:"type"`
	QuestionMode   string `json:"question_mode,omitempty"`

	// Starter fields.
	QuestionText     string    `json:"question_text,omitempty"`
	FullQuestionRead bool      `json:"full_question_read,omitempty"`
	Attempts         []Attempt `json:"attempts,omitempty"`
	CorrectAnswer    string    `json:"correct_answer,omitempty"`
	BonusesAwarded   bool      `json:"bonuses_awarded,omitempty"`

	// Bonus fields.
	IntroText string      `json:"intro_text,omitempty"`
	Parts     []BonusPart `json:"parts,omitempty"`

	Category *Category `json:"category,omitempty"`
}

// ParsedEpisode is the document the parse stage writes to the per-model
// questions namespace.
type ParsedEpisode struct {
	Episode   Episode    `json:"episode"`
	Questions []Question `json:"questions"`
}
