// Command uct is a three-stage pipeline that turns a quiz show channel's
// YouTube uploads into structured question data: fetch-videos lists a
// channel, fetch-transcripts caches caption transcripts, and
// parse-questions runs an LLM over the transcripts. Every stage is
// resumable; finished work is skipped unless --force is given.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/pricing"
	"github.com/adil-soubki/uc-transcripts/internal/questions"
	"github.com/adil-soubki/uc-transcripts/internal/runs"
	"github.com/adil-soubki/uc-transcripts/internal/topics"
	"github.com/adil-soubki/uc-transcripts/internal/transcripts"
	"github.com/adil-soubki/uc-transcripts/internal/videos"
)

const defaultModel = "gpt-5.1"

func channelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "channel",
		Usage:    "channel handle, e.g. @Example",
		Required: true,
	}
}

func forceFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "force",
		Usage: "reprocess items that are already cached",
	}
}

func modelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "model",
		Usage: "LLM to use (" + strings.Join(pricing.Default().Models(), ", ") + ")",
		Value: defaultModel,
	}
}

func videoIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "video-id",
		Usage: "restrict the stage to a single video",
	}
}

func main() {
	app := &cli.App{
		Name:  "uct",
		Usage: "turn quiz show transcripts into structured question data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
				Value: "config.yaml",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "cache root (overrides config and UC_DATA_DIR)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "log errors only",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "fetch-videos",
				Usage:  "list a channel's uploads and save them as CSV",
				Flags:  []cli.Flag{channelFlag(), forceFlag()},
				Action: videos.Action,
			},
			{
				Name:   "fetch-transcripts",
				Usage:  "fetch and cache caption transcripts for a channel listing",
				Flags:  []cli.Flag{channelFlag(), videoIDFlag(), forceFlag()},
				Action: transcripts.Action,
			},
			{
				Name:  "parse-questions",
				Usage: "parse cached transcripts into question documents with an LLM",
				Flags: []cli.Flag{
					modelFlag(), videoIDFlag(), forceFlag(),
					&cli.BoolFlag{
						Name:  "estimate",
						Usage: "print the projected cost instead of calling the model",
					},
				},
				Action: questions.Action,
			},
			{
				Name:   "analyze-topics",
				Usage:  "summarize categories and conversion rates for parsed questions",
				Flags:  []cli.Flag{modelFlag()},
				Action: topics.Action,
			},
			{
				Name:  "runs",
				Usage: "show recent pipeline runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum runs to show",
						Value: 20,
					},
				},
				Action: runs.Action,
			},
		},
	}

	// cli.Exit errors exit with their own code inside Run; anything that
	// reaches here is an unexpected failure.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
