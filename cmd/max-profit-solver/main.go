package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/internal/logging"
	"github.com/iwvelando/max-profit-solver/internal/optimizer"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/output"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file (.yaml or legacy .config)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	assumeYes := flag.BoolP("yes", "y", false, "proceed past validation warnings without prompting")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return 1
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return 1
	}

	confirm := promptConfirm(os.Stdin, os.Stderr)
	if *assumeYes {
		confirm = validation.ProceedOnWarnings(true)
	}

	runner, err := optimizer.NewRunner(logger, conf, optimizer.WithConfirm(confirm))
	if err != nil {
		logger.Error("failed to create runner",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := runner.Run(ctx)
	if runErr != nil {
		logger.Error("run did not complete",
			zap.String("op", "main"),
			zap.String("config", *configLocation),
			zap.Error(runErr),
		)
	}

	// Findings are still reported when the run stopped before solving.
	if result != nil && (runErr == nil || errors.Is(runErr, optimizer.ErrCriticalConstraints) || errors.Is(runErr, optimizer.ErrDeclined)) {
		if err := output.Write(os.Stdout, outputFormat, result); err != nil {
			logger.Error("failed to write output",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return 1
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}
