package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/circuitgraph/internal/app"
)

// EnvPrefix is prepended to the upper-cased, underscored flag name to form
// the environment variable that provides its default.
const EnvPrefix = "CIRCUITGRAPH_"

// defaultEnvFile is read when present and no --env-file is given.
const defaultEnvFile = ".env"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Parse processes command-line arguments against the process environment.
// It returns a populated AppConfig, a boolean indicating if the program
// should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.AppConfig, bool, error) {
	return ParseWithEnv(args, output, os.LookupEnv)
}

// ParseWithEnv is Parse with an explicit environment. Values are taken from,
// in order: the command line, the environment, the env file, the flag default.
func ParseWithEnv(args []string, output io.Writer, lookup LookupFunc) (*app.AppConfig, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("circuitgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
circuitgraph - encodes layer-wise circuit architectures as operation programs
and dependency graphs.

Usage:
  circuitgraph [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Every option can also be set through the environment as CIRCUITGRAPH_<NAME>,
for example CIRCUITGRAPH_PUBLISH_URL, or in a .env file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an architecture file or directory.")
	cFlag := flagSet.String("c", "", "Path to an architecture file or directory (shorthand).")
	outFlag := flagSet.String("out", "-", "File receiving JSON lines. '-' is standard output.")
	dotDirFlag := flagSet.String("dot-dir", "", "Directory receiving one Graphviz file per architecture.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io server receiving every graph. Empty disables publishing.")
	publishNSFlag := flagSet.String("publish-namespace", "/", "socket.io namespace to publish on.")
	publishEventFlag := flagSet.String("publish-event", "graph", "socket.io event name to publish under.")
	insecureFlag := flagSet.Bool("insecure-skip-verify", false, "Skip TLS verification when publishing.")
	scheduleFlag := flagSet.String("schedule", app.ScheduleTape, "Execution schedule. Options: 'tape' or 'moments'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of architectures encoded concurrently.")
	envFileFlag := flagSet.String("env-file", "", "Env file providing option defaults. Defaults to .env when present.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	fileEnv, err := readEnvFile(*envFileFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if err := applyEnv(flagSet, lookup, fileEnv); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	var paths []string
	for _, p := range []string{*configFlag, *cFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

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

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config := &app.AppConfig{
		ConfigPaths:        paths,
		OutputPath:         *outFlag,
		DOTDir:             *dotDirFlag,
		PublishURL:         *publishURLFlag,
		PublishNamespace:   *publishNSFlag,
		PublishEvent:       *publishEventFlag,
		InsecureSkipVerify: *insecureFlag,
		Schedule:           strings.ToLower(*scheduleFlag),
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		WorkerCount:        *workersFlag,
	}
	if err := config.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// readEnvFile reads path, or .env when path is empty and the file exists.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		path = defaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// applyEnv sets every flag not given on the command line from the
// environment or, failing that, from the env file.
func applyEnv(flagSet *flag.FlagSet, lookup LookupFunc, fileEnv map[string]string) error {
	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var errs []error
	flagSet.VisitAll(func(f *flag.Flag) {
		if explicit[f.Name] || len(f.Name) == 1 || f.Name == "env-file" {
			return
		}
		key := EnvKey(f.Name)
		value, ok := lookup(key)
		if !ok {
			value, ok = fileEnv[key]
		}
		if !ok {
			return
		}
		if err := flagSet.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid value %q for %s: %w", value, key, err))
		}
	})
	return errors.Join(errs...)
}

// EnvKey returns the environment variable backing the named flag.
func EnvKey(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
