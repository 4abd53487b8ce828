// Package initialize implements the "init" command.
package initialize

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "init" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a configuration file and an empty declarations file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Configuration template (%s)", strings.Join(TemplateNames(), ", ")),
				Value:   "standalone",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInit(cmd, cfg)
		},
	}
}

func runInit(cmd *cli.Command, cfg *config.Config) error {
	tmpl, err := GetTemplate(cmd.String("template"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	configPath := cmd.Root().String("config")
	if configPath == "" {
		configPath = core.DefaultConfigFile
	}

	effective := cfg
	if _, err := os.Stat(configPath); err == nil && !cmd.Bool("force") {
		printer.PrintWarning(fmt.Sprintf("%s already exists, use --force to overwrite", configPath))
	} else {
		generated := config.Default()
		tmpl.apply(generated)
		if cmd.Root().IsSet("extensions-dir") {
			generated.ExtensionsDir = cfg.ExtensionsDir
		}

		saver := config.NewConfigSaver(func(v any) ([]byte, error) {
			return GenerateConfigWithComments(v.(*config.Config), tmpl.Name)
		}, nil)
		if err := saver.SaveTo(generated, configPath); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		printer.PrintSuccess(fmt.Sprintf("Created %s (template %q)", configPath, tmpl.Name))

		generated.ExpandPaths()
		effective = generated
	}

	if err := os.MkdirAll(effective.ExtensionsDir, core.PermDir); err != nil {
		return cli.Exit(fmt.Sprintf("failed to create extensions root %q: %v", effective.ExtensionsDir, err), 1)
	}
	declPath := effective.DeclarationsPath()
	created, err := declared.Init(declPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if created {
		printer.PrintSuccess(fmt.Sprintf("Created %s", declPath))
	} else {
		printer.PrintFaint(fmt.Sprintf("%s already exists", declPath))
	}

	printer.PrintInfo("Declare extensions with \"crxsync add\", then run \"crxsync sync\".")
	return nil
}
