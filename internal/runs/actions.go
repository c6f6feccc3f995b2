// Package runs implements the runs command: show recent pipeline
// invocations from the history database.
package runs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/common"
	"github.com/adil-soubki/uc-transcripts/internal/render"
	"github.com/adil-soubki/uc-transcripts/internal/runstore"
)

// Action handles `uct runs`.
func Action(c *cli.Context) error {
	rt, err := common.Bootstrap(c, false, false)
	if err != nil {
		return err
	}

	store, err := runstore.Open(rt.Config.RunDBPath())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer store.Close()

	recent, err := store.Recent(c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(recent) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(recent))
	for _, run := range recent {
		rows = append(rows, []string{
			run.StartedAt.Format(time.DateTime),
			run.Stage,
			run.Target,
			run.Model,
			strconv.Itoa(run.Success),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Errors),
			run.Duration.Round(time.Second).String(),
		})
	}
	fmt.Println(render.Table(
		[]string{"Started", "Stage", "Target", "Model", "Success", "Skipped", "Errors", "Duration"},
		rows,
		[]render.Alignment{
			render.AlignLeft, render.AlignLeft, render.AlignLeft, render.AlignLeft,
			render.AlignRight, render.AlignRight, render.AlignRight, render.AlignRight,
		}))
	return nil
}
