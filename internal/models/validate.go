package models

import (
	"fmt"
	"strings"
)

// SchemaError reports every way a parsed document deviates from the
// question taxonomy. The raw model output is kept by the caller for
// debugging; a document with a SchemaError must never reach the cache.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 0 {
		return "schema validation failed"
	}
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Problems, "; "))
}

func (e *SchemaError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

var (
	starterOutcomes = map[string]bool{"correct": true, "incorrect": true, "pass": true}
	bonusOutcomes   = map[string]bool{"correct": true, "incorrect": true, "not_attempted": true}
	questionModes   = map[string]bool{QuestionModeText: true, QuestionModePicture: true, QuestionModeMusic: true}
	bonusParts      = map[string]bool{"a": true, "b": true, "c": true}
)

// ValidateEpisode checks a parsed document against the question taxonomy.
// It returns a *SchemaError listing every problem found, or nil.
func ValidateEpisode(doc *ParsedEpisode) error {
	schemaErr := &SchemaError{}
	if doc == nil {
		schemaErr.add("document is empty")
		return schemaErr
	}

	for i, q := range doc.Questions {
		label := fmt.Sprintf("questions[%d]", i)
		if q.QuestionNumber <= 0 {
			schemaErr.add("%s: question_number must be positive, got %d", label, q.QuestionNumber)
		}
		if q.QuestionMode != "" && !questionModes[q.QuestionMode] {
			schemaErr.add("%s: unknown question_mode %q", label, q.QuestionMode)
		}

		switch q.Type {
		case QuestionTypeStarter:
			if len(q.Parts) > 0 {
				schemaErr.add("%s: starter question must not have bonus parts", label)
			}
			for j, a := range q.Attempts {
				if a.Outcome != "" && !starterOutcomes[a.Outcome] {
					schemaErr.add("%s.attempts[%d]: unknown outcome %q", label, j, a.Outcome)
				}
			}
		case QuestionTypeBonus:
			if len(q.Attempts) > 0 {
				schemaErr.add("%s: bonus question must not have starter attempts", label)
			}
			for j, p := range q.Parts {
				if !bonusParts[p.Part] {
					schemaErr.add("%s.parts[%d]: part must be a, b or c, got %q", label, j, p.Part)
				}
				if p.Outcome != "" && !bonusOutcomes[p.Outcome] {
					schemaErr.add("%s.parts[%d]: unknown outcome %q", label, j, p.Outcome)
				}
			}
		default:
			schemaErr.add("%s: type must be starter or bonus, got %q", label, q.Type)
		}
	}

	if len(schemaErr.Problems) > 0 {
		return schemaErr
	}
	return nil
}
