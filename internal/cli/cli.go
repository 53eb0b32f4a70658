package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ftdgo/internal/app"
	"github.com/specialistvlad/ftdgo/internal/hcl"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ftdgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ftdgo - Interpret ftd documents into element trees.

Usage:
  ftdgo [options] [DOCUMENT...]

Arguments:
  DOCUMENT
    A document id (e.g. 'blog/first-post') or a path to a .ftd file inside a
    document root. Every document of the package is rendered when none is given.

Options:
`)
		flagSet.PrintDefaults()
	}

	rootFlag := flagSet.String("root", ".", "Package root directory.")
	manifestFlag := flagSet.String("manifest", "", "Path to the package manifest. Defaults to ROOT/"+hcl.ManifestName+".")
	outputFlag := flagSet.String("output", "", "Directory to write one file per document to. Defaults to stdout.")
	formatFlag := flagSet.String("format", app.FormatJSON, "Output format. Options: 'json' or 'yaml'.")
	treeFlag := flagSet.String("tree", app.TreeElements, "Tree to write. Options: 'elements' or 'nodes'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of documents rendered concurrently.")
	cacheDirFlag := flagSet.String("cache-dir", "", "Directory of the persistent document cache. Empty keeps it in memory.")
	queryFlag := flagSet.String("query", "", "Query string of the request documents are rendered for.")
	bodyFlag := flagSet.String("body", "", "File holding the JSON body of the request.")
	var pathParams []string
	flagSet.Func("path-param", "Path parameter of the request as key=value. Repeatable.", func(v string) error {
		if !strings.Contains(v, "=") {
			return fmt.Errorf("expected key=value, found %q", v)
		}
		pathParams = append(pathParams, v)
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	manifest := *manifestFlag
	if manifest == "" {
		manifest = filepath.Join(*rootFlag, hcl.ManifestName)
	}
	slog.Debug("CLI parameter validation complete.", "root", *rootFlag, "manifest", manifest)

	config, err := app.NewConfig(app.Config{
		Root:         *rootFlag,
		ManifestPath: manifest,
		Documents:    flagSet.Args(),
		OutputDir:    *outputFlag,
		Format:       strings.ToLower(*formatFlag),
		Tree:         strings.ToLower(*treeFlag),
		CacheDir:     *cacheDirFlag,
		Query:        *queryFlag,
		PathParams:   pathParams,
		BodyPath:     *bodyFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkerCount:  *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
