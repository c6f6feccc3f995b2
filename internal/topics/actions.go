package topics

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/common"
	"github.com/adil-soubki/uc-transcripts/internal/models"
	"github.com/adil-soubki/uc-transcripts/internal/render"
)

const topCategories = 15

// Action handles `uct analyze-topics --model <name>`.
func Action(c *cli.Context) error {
	rt, err := common.Bootstrap(c, false, false)
	if err != nil {
		return err
	}
	model := c.String("model")
	namespace := cache.QuestionsNamespace(model)

	ids, err := rt.Store.List(namespace)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(ids) == 0 {
		fmt.Printf("No parsed episodes for %s; run parse-questions first\n", model)
		return nil
	}

	var episodes []models.ParsedEpisode
	for _, id := range ids {
		var ep models.ParsedEpisode
		if err := rt.Store.Read(namespace, id, &ep); err != nil {
			rt.Logger.Warn("skipping unreadable document", "id", id, "error", err)
			continue
		}
		episodes = append(episodes, ep)
	}

	report := Aggregate(episodes)

	fmt.Printf("Parsed episodes for %s: %d episodes, %d questions (%d starters, %d bonuses)\n",
		model, report.Episodes, report.Questions, report.Starters, report.Bonuses)
	fmt.Printf("Starter conversion: %.1f%%   Bonus conversion: %.1f%%\n",
		report.StarterConversionRate()*100, report.BonusConversionRate()*100)

	rows := make([][]string, 0, topCategories)
	for i, cc := range report.Primary {
		if i == topCategories {
			break
		}
		rows = append(rows, []string{cc.Category, strconv.Itoa(cc.Count)})
	}
	fmt.Println(render.Table([]string{"Primary category", "Questions"}, rows,
		[]render.Alignment{render.AlignLeft, render.AlignRight}))

	answerRows := make([][]string, 0, topCategories)
	for i, cc := range report.TopAnswers {
		if i == topCategories || cc.Count < 2 {
			break
		}
		answerRows = append(answerRows, []string{cc.Category, strconv.Itoa(cc.Count)})
	}
	if len(answerRows) > 0 {
		fmt.Println(render.Table([]string{"Recurring answer", "Times"}, answerRows,
			[]render.Alignment{render.AlignLeft, render.AlignRight}))
	}

	return nil
}
