// Package add implements the "add" command.
package add

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "add" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Declare an extension in the declarations file",
		Description: `Add an extension entry. The package is fetched on the next sync.

Examples:
  crxsync add --id cjpalhdlnbpafiamejdnhcphjbkeiagm --url https://example.com/ublock.crx --version 1.62.0
  crxsync add --id reader --name "Reader" --url https://example.com/reader.zip --replace`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Extension id, used as the directory name", Required: true},
			&cli.StringFlag{Name: "url", Usage: "Package download URL", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Display name (defaults to the id)"},
			&cli.StringFlag{Name: "version", Usage: "Declared version; omit to refresh on every sync"},
			&cli.BoolFlag{Name: "replace", Usage: "Overwrite an existing declaration"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAdd(cmd, cfg)
		},
	}
}

func runAdd(cmd *cli.Command, cfg *config.Config) error {
	ext := declared.Extension{
		ID:      cmd.String("id"),
		Name:    cmd.String("name"),
		Version: cmd.String("version"),
		URL:     cmd.String("url"),
	}
	reserved := cfg.ReservedNames()
	if slices.Contains(reserved, ext.ID) {
		return cli.Exit(fmt.Sprintf("%q is reserved under the extensions root and cannot be an extension id", ext.ID), 1)
	}
	if ext.Name == "" {
		ext.Name = ext.ID
	}

	path := cfg.DeclarationsPath()
	if err := os.MkdirAll(filepath.Dir(path), core.PermDir); err != nil {
		return cli.Exit(fmt.Sprintf("failed to create declarations directory: %v", err), 1)
	}
	if created, err := declared.Init(path); err != nil {
		return cli.Exit(err.Error(), 1)
	} else if created {
		printer.PrintFaint(fmt.Sprintf("Created %s", path))
	}

	if err := declared.Add(path, ext, cmd.Bool("replace"), reserved...); err != nil {
		return cli.Exit(fmt.Sprintf("failed to add extension: %v", err), 1)
	}

	printer.PrintSuccess(fmt.Sprintf("Extension %q declared. Run \"crxsync sync\" to install it.", ext.ID))
	return nil
}
