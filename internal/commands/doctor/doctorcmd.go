// Package doctor implements the "doctor" command.
package doctor

import (
	"context"
	"fmt"

	"github.com/indaco/crxsync/internal/config"
	"github.com/indaco/crxsync/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "doctor" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check that the configuration can drive a sync",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDoctor(cfg)
		},
	}
}

func runDoctor(cfg *config.Config) error {
	results := config.NewValidator(cfg).Validate()

	for _, r := range results {
		switch {
		case r.Passed:
			fmt.Printf("%s %s: %s\n", printer.Success("✓"), printer.Bold(r.Category), r.Message)
		case r.Warning:
			fmt.Printf("%s %s: %s\n", printer.Warning("⚠"), printer.Bold(r.Category), r.Message)
		default:
			fmt.Printf("%s %s: %s\n", printer.Error("✗"), printer.Bold(r.Category), r.Message)
		}
	}

	errs, warns := config.ErrorCount(results), config.WarningCount(results)
	fmt.Println()
	if config.HasErrors(results) {
		return cli.Exit(fmt.Sprintf("%d error(s), %d warning(s)", errs, warns), 1)
	}
	printer.PrintSuccess(fmt.Sprintf("Configuration OK (%d warning(s))", warns))
	return nil
}
