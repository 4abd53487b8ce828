// Package list implements the "list" command.
package list

import (
	"context"
	"fmt"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "list" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show declared and installed extensions with their versions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, table, json",
				Value:   string(FormatText),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runList(cmd, cfg)
		},
	}
}

func runList(cmd *cli.Command, cfg *config.Config) error {
	items, err := BuildInventory(cfg)
	if err != nil {
		printer.PrintError(err.Error())
		return cli.Exit("failed to build extension inventory", 1)
	}

	out, err := NewFormatter(ParseOutputFormat(cmd.String("format"))).Format(items)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Print(out)
	return nil
}
