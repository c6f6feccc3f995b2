package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adil-soubki/uc-transcripts/internal/models"
)

func starter(converted bool, primary string) models.Question {
	q := models.Question{
		QuestionNumber: 1,
		Type:           models.QuestionTypeStarter,
		CorrectAnswer:  "Mercury",
		Category:       &models.Category{Primary: primary},
	}
	outcome := "incorrect"
	if converted {
		outcome = "correct"
	}
	q.Attempts = []models.Attempt{{Team: "Alpha", Outcome: outcome}}
	return q
}

func bonus(outcomes ...string) models.Question {
	q := models.Question{
		QuestionNumber: 2,
		Type:           models.QuestionTypeBonus,
		Category:       &models.Category{Primary: "History", Secondary: []string{"Dates"}},
	}
	for i, o := range outcomes {
		q.Parts = append(q.Parts, models.BonusPart{Part: string(rune('a' + i)), Outcome: o})
	}
	return q
}

func TestAggregate(t *testing.T) {
	episodes := []models.ParsedEpisode{
		{Questions: []models.Question{
			starter(true, "Science"),
			starter(false, "Science"),
			bonus("correct", "incorrect", "correct"),
		}},
		{Questions: []models.Question{
			starter(true, "Literature"),
		}},
	}

	report := Aggregate(episodes)

	assert.Equal(t, 2, report.Episodes)
	assert.Equal(t, 4, report.Questions)
	assert.Equal(t, 3, report.Starters)
	assert.Equal(t, 1, report.Bonuses)
	assert.Equal(t, 2, report.StartersConverted)
	assert.Equal(t, 3, report.BonusParts)
	assert.Equal(t, 2, report.BonusPartsCorrect)
	assert.InDelta(t, 2.0/3.0, report.StarterConversionRate(), 1e-9)
	assert.InDelta(t, 2.0/3.0, report.BonusConversionRate(), 1e-9)

	assert.Equal(t, []CategoryCount{
		{Category: "Science", Count: 2},
		{Category: "History", Count: 1},
		{Category: "Literature", Count: 1},
	}, report.Primary)
	assert.Equal(t, []CategoryCount{{Category: "Dates", Count: 1}}, report.Secondary)
	assert.Equal(t, []CategoryCount{{Category: "Mercury", Count: 3}}, report.TopAnswers)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	assert.Zero(t, report.Questions)
	assert.Zero(t, report.StarterConversionRate())
	assert.Zero(t, report.BonusConversionRate())
}
