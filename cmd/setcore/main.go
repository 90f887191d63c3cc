// Command setcore is the administration CLI for the setlist service.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "setcore",
		Usage:    "Manage worship sets, songs, and resources",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
