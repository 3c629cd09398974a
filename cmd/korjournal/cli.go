package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/errors"
	"github.com/asodergren/korjournal/internal/ops"
	"github.com/asodergren/korjournal/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "korjournal",
		Usage:   "Personal travel log",
		Version: Version,
		Commands: []*cli.Command{
			importCmd(db),
			listCmd(db, cfg),
			showCmd(db),
			updateCmd(db),
			summaryCmd(db),
			statsCmd(db),
			runsCmd(db),
			settingsCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// filterFlags are the shared trip filter flags.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category (Privat, Arbete, Okategoriserat)"},
		&cli.StringFlag{Name: "from", Usage: "Inclusive start date lower bound (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "Inclusive start date upper bound (YYYY-MM-DD)"},
	}
}

// filterFromFlags builds a trip filter from the shared flags.
func filterFromFlags(c *cli.Context) ops.TripFilter {
	return ops.TripFilter{
		Category: c.String("category"),
		DateFrom: c.String("from"),
		DateTo:   c.String("to"),
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import an exported trip file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remap", Usage: "Remap 'Okategoriserat' trips to 'Privat' before validation"},
			&cli.BoolFlag{Name: "no-remap", Usage: "Keep 'Okategoriserat' trips as-is, overriding the stored setting"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("file path is required"))
			}
			path := c.Args().First()

			raw, err := os.ReadFile(path)
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read file: %s", path)))
			}

			input := ops.ImportInput{
				Raw:      raw,
				Filename: filepath.Base(path),
			}
			if c.Bool("remap") {
				remap := true
				input.Remap = &remap
			} else if c.Bool("no-remap") {
				remap := false
				input.Remap = &remap
			}

			output, err := ops.Import(context.Background(), db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List trips",
		Flags: append(filterFlags(),
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.StringFlag{Name: "sort", Value: "desc", Usage: "Sort order by start date: asc|desc"},
		),
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Filter: filterFromFlags(c),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
				Sort:   c.String("sort"),
			}

			output, err := ops.List(context.Background(), db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single trip",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("trip ID is required"))
			}

			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Get(context.Background(), db, id)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update the category and/or notes of a trip",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "New category"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "New notes (markdown)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("trip ID is required"))
			}

			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			input := ops.UpdateInput{ID: id}
			if c.IsSet("category") {
				category := c.String("category")
				input.Category = &category
			}
			if c.IsSet("notes") {
				notes := c.String("notes")
				input.Notes = &notes
			}

			output, err := ops.Update(context.Background(), db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Trip count, total distance and total duration",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.Summary(context.Background(), db, ops.SummaryInput{
				Filter: filterFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Full statistics report with category and month breakdowns",
		Flags: filterFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(context.Background(), db, ops.StatsInput{
				Filter: filterFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// runsCmd creates the runs command.
func runsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent import runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum runs to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Runs(context.Background(), db, ops.RunsInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// settingsCmd creates the settings command with get/set subcommands.
func settingsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read or store settings",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Read settings (all known keys, or the given ones)",
				ArgsUsage: "[key ...]",
				Action: func(c *cli.Context) error {
					output, err := ops.GetSettings(context.Background(), db, ops.GetSettingsInput{
						Keys: c.Args().Slice(),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:      "set",
				Usage:     "Store one setting",
				ArgsUsage: "<key> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("usage: settings set <key> <value>"))
					}

					output, err := ops.SetSetting(context.Background(), db, ops.SetSettingInput{
						Key:   c.Args().Get(0),
						Value: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8417, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// parseID parses a positional trip ID argument.
func parseID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest("trip ID must be a positive integer")
	}
	return id, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
