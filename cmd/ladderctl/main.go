package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"duo-ladder/internal/database"
	"duo-ladder/internal/db"
	"duo-ladder/internal/rank"
	"duo-ladder/internal/repository"
	"duo-ladder/internal/scoring"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "ladderctl",
		Usage:     "offline tools for the duo ladder",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			newScoreCommand(),
			newRankCommand(),
			newMigrateCommand(),
			newStandingsCommand(),
		},
	}
}

func newScoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "score a game read from a JSON file and print the breakdown",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "game JSON (\"-\" for stdin)", Required: true},
			&cli.IntFlag{Name: "noob-streak", Usage: "noob streak before the game"},
			&cli.IntFlag{Name: "carry-streak", Usage: "carry streak before the game"},
		},
		Action: func(c *cli.Context) error {
			var r io.Reader = os.Stdin
			if path := c.String("file"); path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open game file: %w", err)
				}
				defer f.Close()
				r = f
			}

			var game scoring.GameData
			dec := json.NewDecoder(r)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&game); err != nil {
				return fmt.Errorf("failed to decode game: %w", err)
			}

			breakdown, err := scoring.ComputeGameScore(game, c.Int("noob-streak"), c.Int("carry-streak"))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(breakdown)
		},
	}
}

func newRankCommand() *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Usage:     "parse a compact rank such as G2 or GM",
		ArgsUsage: "<compact>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one rank", 2)
			}
			r, err := rank.ParseCompact(c.Args().First())
			if err != nil {
				return err
			}
			value, err := rank.ToValue(r)
			if err != nil {
				return err
			}
			compact, _ := rank.FormatCompact(r)

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "tier\t%s\n", r.Tier)
			if r.Division != rank.NoDivision {
				fmt.Fprintf(w, "division\t%s\n", r.Division)
			}
			fmt.Fprintf(w, "compact\t%s\n", compact)
			fmt.Fprintf(w, "value\t%d\n", value)
			return w.Flush()
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "ladder.db", EnvVars: []string{"DB_PATH"}, Usage: "sqlite database path"},
		},
		Action: func(c *cli.Context) error {
			sqlDB, err := database.Open(c.String("db"), zerolog.New(c.App.ErrWriter))
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			fmt.Fprintf(c.App.Writer, "migrated %s\n", c.String("db"))
			return nil
		},
	}
}

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the ladder",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "ladder.db", EnvVars: []string{"DB_PATH"}, Usage: "sqlite database path"},
			&cli.IntFlag{Name: "limit", Value: 20},
		},
		Action: func(c *cli.Context) error {
			logger := zerolog.Nop()
			sqlDB, err := database.Open(c.String("db"), logger)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			duos, err := repository.NewDuoRepository(sqlDB, db.New(sqlDB), logger).List(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tDUO\tPOINTS\tW-L\tSTREAKS")
			for i, d := range duos {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d-%d\t%+d/%+d\n", i+1, d.Name, d.TotalPoints, d.Wins, d.Losses, d.NoobStreak, d.CarryStreak)
			}
			return w.Flush()
		},
	}
}
