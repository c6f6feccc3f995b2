// Package topics aggregates parsed question documents into a per-model
// category and conversion report.
package topics

import (
	"sort"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

// CategoryCount is one subject and how often it appeared.
type CategoryCount struct {
	Category string
	Count    int
}

// Report summarizes the questions one model produced across episodes.
type Report struct {
	Episodes  int
	Questions int
	Starters  int
	Bonuses   int

	Primary   []CategoryCount
	Secondary []CategoryCount

	// TopAnswers counts how often each correct answer recurs across
	// starters and bonus parts.
	TopAnswers []CategoryCount

	// StartersConverted counts starters answered correctly by some team;
	// BonusPartsCorrect counts correct bonus parts.
	StartersConverted int
	BonusParts        int
	BonusPartsCorrect int
}

// StarterConversionRate is the fraction of starters answered correctly.
func (r Report) StarterConversionRate() float64 {
	if r.Starters == 0 {
		return 0
	}
	return float64(r.StartersConverted) / float64(r.Starters)
}

// BonusConversionRate is the fraction of bonus parts answered correctly.
func (r Report) BonusConversionRate() float64 {
	if r.BonusParts == 0 {
		return 0
	}
	return float64(r.BonusPartsCorrect) / float64(r.BonusParts)
}

// Aggregate builds a report over parsed episodes. Category counts are
// sorted by frequency, ties alphabetically, so output is stable.
func Aggregate(episodes []models.ParsedEpisode) Report {
	report := Report{Episodes: len(episodes)}
	primary := map[string]int{}
	secondary := map[string]int{}
	answers := map[string]int{}

	for _, ep := range episodes {
		report.Questions += len(ep.Questions)
		for _, q := range ep.Questions {
			if q.Category != nil {
				if q.Category.Primary != "" {
					primary[q.Category.Primary]++
				}
				for _, s := range q.Category.Secondary {
					if s != "" {
						secondary[s]++
					}
				}
			}

			switch q.Type {
			case models.QuestionTypeStarter:
				report.Starters++
				if q.CorrectAnswer != "" {
					answers[q.CorrectAnswer]++
				}
				for _, a := range q.Attempts {
					if a.Outcome == "correct" {
						report.StartersConverted++
						break
					}
				}
			case models.QuestionTypeBonus:
				report.Bonuses++
				for _, p := range q.Parts {
					report.BonusParts++
					if p.CorrectAnswer != "" {
						answers[p.CorrectAnswer]++
					}
					if p.Outcome == "correct" {
						report.BonusPartsCorrect++
					}
				}
			}
		}
	}

	report.Primary = sortCounts(primary)
	report.Secondary = sortCounts(secondary)
	report.TopAnswers = sortCounts(answers)
	return report
}

func sortCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
