package cli

import (
	"context"
	"fmt"

	"github.com/indaco/crxsync/internal/commands/add"
	"github.com/indaco/crxsync/internal/commands/args"
	"github.com/indaco/crxsync/internal/commands/doctor"
	"github.com/indaco/crxsync/internal/commands/initialize"
	"github.com/indaco/crxsync/internal/commands/list"
	"github.com/indaco/crxsync/internal/commands/remove"
	"github.com/indaco/crxsync/internal/commands/synchronize"
	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/indaco/crxsync/internal/tui"
	"github.com/indaco/crxsync/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// New builds and returns the root CLI command. The configuration is
// loaded in place before any subcommand runs, so every command sees the
// effective settings through cfg. Without a subcommand, crxsync syncs.
func New(cfg *config.Config) *urfavecli.Command {
	var noColor bool

	flags := []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the crxsync configuration file",
			DefaultText: core.DefaultConfigFile,
		},
		&urfavecli.StringFlag{
			Name:    "extensions-dir",
			Aliases: []string{"d"},
			Usage:   "Extensions root (overrides config and " + config.EnvExtensionsDir + ")",
		},
		&urfavecli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Destination: &noColor,
		},
	}

	return &urfavecli.Command{
		Name:                  "crxsync",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Keep a browser's unpacked extensions in line with a declared set",
		EnableShellCompletion: true,
		Flags:                 append(flags, synchronize.Flags(true)...),
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(noColor)
			if err := loadInto(cfg, cmd); err != nil {
				return ctx, err
			}
			tui.SetTheme(cfg.Theme)
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return synchronize.Execute(ctx, cfg, synchronize.OptionsFrom(cmd))
		},
		Commands: []*urfavecli.Command{
			synchronize.Run(cfg),
			initialize.Run(cfg),
			add.Run(cfg),
			remove.Run(cfg),
			list.Run(cfg),
			args.Run(cfg),
			doctor.Run(cfg),
		},
	}
}

// loadInto replaces cfg with the configuration file named by --config
// (or the default file) and applies the --extensions-dir override.
func loadInto(cfg *config.Config, cmd *urfavecli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = core.DefaultConfigFile
	}
	loaded, err := config.LoadConfigFn(path)
	if err != nil {
		return err
	}
	*cfg = *loaded

	if dir := cmd.String("extensions-dir"); dir != "" {
		cfg.ExtensionsDir = dir
	}
	return nil
}
