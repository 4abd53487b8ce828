package synchronize

import (
	"context"
	"fmt"
	"os"

	"github.com/indaco/crxsync/internal/composepatch"
	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/core"
	"github.com/indaco/crxsync/internal/declared"
	"github.com/indaco/crxsync/internal/fetcher"
	"github.com/indaco/crxsync/internal/launchargs"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/indaco/crxsync/internal/reconcile"
	"github.com/indaco/crxsync/internal/restarter"
	"github.com/indaco/crxsync/internal/tui"
	"github.com/urfave/cli/v3"
)

// Options controls a single sync run.
type Options struct {
	DryRun    bool
	NoRestart bool
	Confirm   bool
	Strict    bool
}

type containerRestarter interface {
	Restart(ctx context.Context) error
}

// Swapped in tests.
var (
	newFetcher = func(cfg *config.Config) reconcile.Fetcher {
		opts := []fetcher.Option{fetcher.WithTimeout(cfg.FetchTimeout())}
		if cfg.Fetch != nil && cfg.Fetch.UserAgent != "" {
			opts = append(opts, fetcher.WithUserAgent(cfg.Fetch.UserAgent))
		}
		return fetcher.New(opts...)
	}
	newRestarter = func(composeFile string) containerRestarter {
		return restarter.New(composeFile, nil)
	}
	confirmRestart = tui.Confirm
)

// Run returns the "sync" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Install, update and remove extensions to match the declarations file",
		Flags: Flags(false),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return Execute(ctx, cfg, OptionsFrom(cmd))
		},
	}
}

// Flags returns the flags understood by sync. The root command shares
// them, marked local, so that a bare "crxsync" behaves like "crxsync sync".
func Flags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Report what would change without touching disk or network",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "no-restart",
			Usage: "Do not restart the browser container after changes",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "confirm",
			Usage: "Ask before restarting the browser container",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Exit non-zero when any extension fails",
			Local: local,
		},
	}
}

// OptionsFrom reads sync flags from cmd.
func OptionsFrom(cmd *cli.Command) Options {
	return Options{
		DryRun:    cmd.Bool("dry-run"),
		NoRestart: cmd.Bool("no-restart"),
		Confirm:   cmd.Bool("confirm"),
		Strict:    cmd.Bool("strict"),
	}
}

// Execute performs one reconciliation pass followed by launch-argument
// derivation and, when something changed, a container restart.
func Execute(ctx context.Context, cfg *config.Config, opts Options) error {
	declPath := cfg.DeclarationsPath()
	if _, err := os.Stat(declPath); os.IsNotExist(err) && !opts.DryRun {
		return scaffold(cfg, declPath)
	}

	source := &declared.FileSource{Path: declPath, Reserved: cfg.ReservedNames()}
	rec := reconcile.New(cfg.ExtensionsDir, source,
		reconcile.WithScratchDir(cfg.ScratchDir),
		reconcile.WithReservedNames(cfg.ReservedNames()...),
		reconcile.WithFetcher(&spinnerFetcher{inner: newFetcher(cfg)}),
		reconcile.WithDryRun(opts.DryRun),
		reconcile.WithEventHandler(printEvent),
	)

	res, err := rec.Run(ctx)
	if err != nil && ctx.Err() != nil {
		if res != nil {
			printSummary(res, opts.DryRun)
		}
		printer.PrintWarning("Sync interrupted; remaining extensions were not processed")
		return cli.Exit("sync interrupted", 1)
	}
	if err != nil {
		printer.PrintError(fmt.Sprintf("[%s] %v", core.KindOf(err), err))
		return cli.Exit("sync aborted: declarations could not be loaded", 1)
	}
	printSummary(res, opts.DryRun)

	if opts.DryRun {
		return strictExit(res, opts)
	}

	patched, err := writeLaunchArgs(cfg)
	if err != nil {
		printer.PrintError(err.Error())
		return cli.Exit("failed to update launch arguments", 1)
	}

	if res.Changed() || patched {
		if err := restart(ctx, cfg, opts); err != nil {
			printer.PrintError(err.Error())
			return cli.Exit("failed to restart browser container", 1)
		}
	}

	return strictExit(res, opts)
}

func scaffold(cfg *config.Config, declPath string) error {
	if err := os.MkdirAll(cfg.ExtensionsDir, core.PermDir); err != nil {
		return cli.Exit(fmt.Sprintf("failed to create extensions root %q: %v", cfg.ExtensionsDir, err), 1)
	}
	if _, err := declared.Init(declPath); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	printer.PrintWarning(fmt.Sprintf("Created empty declarations file %s", declPath))
	printer.PrintFaint("Declare extensions in it and run sync again.")
	return nil
}

// writeLaunchArgs writes the args file and patches the compose file when
// configured. It reports whether the compose file was rewritten.
func writeLaunchArgs(cfg *config.Config) (bool, error) {
	names, err := launchargs.Collect(cfg.ExtensionsDir, cfg.ReservedNames()...)
	if err != nil {
		return false, err
	}
	args := launchargs.Derive(names, cfg.MountPrefix)

	changed, err := launchargs.WriteFile(cfg.ArgsPath(), args)
	if err != nil {
		return false, err
	}
	if changed {
		printer.PrintSuccess(fmt.Sprintf("Launch arguments updated in %s", cfg.ArgsPath()))
	} else {
		printer.PrintFaint("Launch arguments unchanged")
	}

	c := cfg.Compose
	if c == nil || c.File == "" || c.EnvKey == "" {
		return false, nil
	}
	patched, err := composepatch.Patch(c.File, c.EnvKey, args)
	if err != nil {
		return false, err
	}
	if patched {
		printer.PrintSuccess(fmt.Sprintf("%s updated in %s", c.EnvKey, c.File))
	}
	return patched, nil
}

func restart(ctx context.Context, cfg *config.Config, opts Options) error {
	switch {
	case opts.NoRestart:
		printer.PrintFaint("Restart skipped (--no-restart)")
		return nil
	case !cfg.RestartEnabled():
		printer.PrintWarning("Restart the browser container to apply the changes.")
		return nil
	}

	if opts.Confirm {
		ok, err := confirmRestart("Restart the browser container?", cfg.Compose.File, false)
		if err != nil {
			return fmt.Errorf("restart prompt failed: %w", err)
		}
		if !ok {
			printer.PrintWarning("Restart skipped, changes apply on the next container start.")
			return nil
		}
	}

	printer.PrintInfo("Restarting browser container...")
	if err := newRestarter(cfg.Compose.File).Restart(ctx); err != nil {
		return err
	}
	printer.PrintSuccess("Browser container restarted")
	return nil
}

func strictExit(res *reconcile.Result, opts Options) error {
	if opts.Strict && res.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d extension(s) failed", res.Failed), 1)
	}
	return nil
}
