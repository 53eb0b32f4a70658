package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/specialistvlad/ftdgo/internal/app"
	"github.com/specialistvlad/ftdgo/internal/cli"
	"github.com/specialistvlad/ftdgo/internal/hcl"
)

// errReported marks a failure already written to the error output.
var errReported = errors.New("rendering failed")

// main is the entrypoint for the ftdgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:], color); err != nil {
		var exitErr *cli.ExitError
		switch {
		case errors.As(err, &exitErr):
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		case errors.Is(err, errReported):
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Documents go to outW; logs and diagnostics go to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string, color bool) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors, so we recover here to provide
	// a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	ftdApp := app.NewApp(outW, errW, appConfig, loader)
	defer ftdApp.Close()

	if err := ftdApp.Run(ctx); err != nil {
		if werr := ftdApp.ReportError(errW, err, color); werr != nil {
			return err
		}
		return errReported
	}
	return nil
}
