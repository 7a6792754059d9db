package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli"

	"github.com/vk/stepgrid/internal/app"
)

const appName = "stepgrid"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var config *app.Config

	cliApp := cli.NewApp()
	cliApp.Name = appName
	cliApp.HelpName = appName
	cliApp.Usage = "simulate a dependency plan on a pool of workers"
	cliApp.UsageText = appName + " [options] PLAN_PATH"
	cliApp.Description = "PLAN_PATH is a step file, an .hcl or .yaml plan, or a directory of plans.\n" +
		"   Options must come before PLAN_PATH."
	cliApp.HideVersion = true
	cliApp.Writer = output
	cliApp.ErrWriter = output
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "plan, p",
			Usage: "path to the plan file or directory",
		},
		cli.StringFlag{
			Name:  "format",
			Value: app.FormatAuto,
			Usage: "plan format: 'auto', 'text', 'hcl' or 'yaml'",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 5,
			Usage: "workers for the timed run when the plan declares no scenarios",
		},
		cli.IntFlag{
			Name:  "base-duration",
			Value: 60,
			Usage: "seconds added to every task in the timed run",
		},
		cli.StringFlag{
			Name:  "output, o",
			Value: app.OutputText,
			Usage: "report format: 'text' or 'json'",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "logging level: 'debug', 'info', 'warn' or 'error'",
			EnvVar: "STEPGRID_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "log output format: 'text' or 'json'",
		},
		cli.StringFlag{
			Name:   "publish-url",
			Usage:  "socket.io server to publish results to",
			EnvVar: "STEPGRID_PUBLISH_URL",
		},
		cli.BoolFlag{
			Name:  "publish-insecure",
			Usage: "skip TLS certificate verification when publishing",
		},
		cli.StringFlag{
			Name:  "publish-namespace",
			Value: "/",
			Usage: "socket.io namespace for published results",
		},
	}
	cliApp.OnUsageError = func(_ *cli.Context, err error, _ bool) error {
		return usageError(err)
	}
	cliApp.Action = func(ctx *cli.Context) error {
		cfg, err := buildConfig(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			slog.Debug("No plan path provided, printing usage and exiting.")
			return cli.ShowAppHelp(ctx)
		}
		config = cfg
		return nil
	}

	if err := cliApp.Run(append([]string{appName}, args...)); err != nil {
		if _, ok := err.(*ExitError); ok {
			return nil, false, err
		}
		return nil, false, usageError(err)
	}

	// Help was requested or no plan was given.
	if config == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// buildConfig validates the parsed flags. It returns a nil config when no
// plan path was given.
func buildConfig(ctx *cli.Context) (*app.Config, error) {
	path := ctx.String("plan")
	if path == "" {
		path = ctx.Args().First()
	}
	slog.Debug("Plan path determined.", "path", path)
	if path == "" {
		return nil, nil
	}
	if ctx.NArg() > 1 || (ctx.String("plan") != "" && ctx.NArg() > 0) {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(ctx.Args(), " "))}
	}

	logFormat := strings.ToLower(ctx.String("log-format"))
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(ctx.String("log-level"))
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PlanPath:         path,
		Format:           strings.ToLower(ctx.String("format")),
		Workers:          ctx.Int("workers"),
		BaseDuration:     ctx.Int("base-duration"),
		Output:           strings.ToLower(ctx.String("output")),
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		PublishURL:       ctx.String("publish-url"),
		PublishNamespace: ctx.String("publish-namespace"),
		PublishInsecure:  ctx.Bool("publish-insecure"),
	})
	if err != nil {
		return nil, usageError(err)
	}
	return config, nil
}
