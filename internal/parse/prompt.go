package parse

import (
	"fmt"
	"strings"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

// SystemPrompt frames the extraction task for the model.
const SystemPrompt = "You are a careful data extraction system. " +
	"You read quiz show transcripts and return only valid JSON that matches " +
	"the requested schema. Never include commentary, markdown fences, or " +
	"fields that are not in the schema."

const promptSchema = `Return a single JSON object with this shape:
{
  "episode": {
    "series": <int or null>,
    "episode": <int or null>,
    "date": "<air date if stated, else empty>",
    "teams": ["<team name>", "<team name>"]
  },
  "questions": [
    {
      "question_number": <int, sequential from 1>,
      "type": "starter" | "bonus",
      "question_mode": "text" | "picture" | "music",
      "question_text": "<full starter text, starters only>",
      "full_question_read": <bool, starters only>,
      "attempts": [
        {"team": "<team>", "attempted_answer": "<answer>", "outcome": "correct" | "incorrect" | "pass"}
      ],
      "correct_answer": "<answer, starters only>",
      "bonuses_awarded": <bool, starters only>,
      "intro_text": "<bonus introduction, bonuses only>",
      "parts": [
        {"part": "a" | "b" | "c", "text": "<part text>", "attempted_answer": "<answer>", "correct_answer": "<answer>", "outcome": "correct" | "incorrect" | "not_attempted"}
      ],
      "category": {"primary": "<subject>", "secondary": ["<subject>"]}
    }
  ]
}

Rules:
- Starter questions carry question_text, attempts, correct_answer and bonuses_awarded. They never have parts.
- Bonus questions carry intro_text and parts. They never have attempts.
- A starter interrupted by a buzz has full_question_read set to false.
- Picture and music rounds use question_mode "picture" or "music"; everything else is "text".
- Omit fields you cannot determine rather than guessing.`

// BuildPrompt assembles the user prompt for one transcript.
func BuildPrompt(video models.VideoMetadata, transcript models.Transcript) string {
	var sb strings.Builder
	sb.WriteString("Extract every quiz question from this episode transcript.\n\n")
	fmt.Fprintf(&sb, "Video title: %s\n", video.Title)
	if video.PublishedAt != "" {
		fmt.Fprintf(&sb, "Published: %s\n", video.PublishedAt)
	}
	sb.WriteString("\n")
	sb.WriteString(promptSchema)
	sb.WriteString("\n\nTranscript:\n")
	sb.WriteString(transcript.PlainText())
	return sb.String()
}
