// Package args implements the "args" command.
package args

import (
	"context"
	"fmt"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/launchargs"
	"github.com/urfave/cli/v3"
)

// Run returns the "args" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "args",
		Usage: "Print the browser launch argument for the installed extensions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "paths",
				Usage: "Print one mounted extension path per line instead",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Also write the argument to the args file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runArgs(cmd, cfg)
		},
	}
}

func runArgs(cmd *cli.Command, cfg *config.Config) error {
	names, err := launchargs.Collect(cfg.ExtensionsDir, cfg.ReservedNames()...)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool("paths") {
		for _, p := range launchargs.Paths(names, cfg.MountPrefix) {
			fmt.Println(p)
		}
	} else {
		fmt.Println(launchargs.Derive(names, cfg.MountPrefix))
	}

	if cmd.Bool("write") {
		if _, err := launchargs.WriteFile(cfg.ArgsPath(), launchargs.Derive(names, cfg.MountPrefix)); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	return nil
}
