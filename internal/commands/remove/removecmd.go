// Package remove implements the "remove" command.
package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "remove" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Remove an extension from the declarations file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Id of the extension to remove"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRemove(cmd, cfg)
		},
	}
}

// runRemove drops the declaration only. The installed directory is
// deleted by the next sync.
func runRemove(cmd *cli.Command, cfg *config.Config) error {
	id := cmd.String("id")
	if id == "" {
		return cli.Exit("please provide an extension id to remove", 1)
	}

	if err := declared.Remove(cfg.DeclarationsPath(), id); err != nil {
		if errors.Is(err, declared.ErrNotFound) {
			printer.PrintWarning(fmt.Sprintf("extension %q not found", id))
			return nil
		}
		return cli.Exit(fmt.Sprintf("failed to remove extension: %v", err), 1)
	}

	printer.PrintSuccess(fmt.Sprintf("Extension %q removed. Run \"crxsync sync\" to uninstall it.", id))
	return nil
}
