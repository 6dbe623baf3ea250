// Package cli implements the myfind command line.
//
// The find expression uses single-dash predicates (-name, -type, ...) that
// ordinary flag parsing would misread, so cobra's flag parsing is disabled:
// only the leading --long options are handed to the flag set and the rest
// of the arguments are passed through as the expression.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Ning0612/myfind/internal/config"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/report"
	"github.com/Ning0612/myfind/internal/service"
)

// Version is injected at build time via -ldflags
var Version = "dev"

const programName = service.ProgramName

// exitError carries a non-zero exit status whose message is already printed
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errFailed = &exitError{code: 1}

type options struct {
	configPath string
	logLevel   string
	logFile    string
	color      string
	history    int
}

// NewRootCommand creates and returns the root cobra command for myfind
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "myfind [--option ...] [directory] [expression]",
		Short: "Search a directory tree for entries matching an expression",
		Long: `myfind walks a directory tree and reports every entry for which the
expression is true. Predicates are evaluated left to right and joined by
an implicit AND. Without -print or -ls every match is printed.`,
		Version:            Version,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default: search for config.yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	f.StringVar(&opts.color, "color", "", "colour diagnostics: auto, always, never")
	f.IntVar(&opts.history, "history", DefaultHistoryLimit, "print the last N recorded runs (--history=N) and exit")
	f.Lookup("history").NoOptDefVal = strconv.Itoa(DefaultHistoryLimit)

	return cmd
}

// Execute runs myfind with args (program name excluded) and returns the
// process exit status
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	diag := report.NewDiagnostics(errOut, programName, report.ColorAuto)

	flagArgs, expression := splitOptions(cmd.Flags(), args)
	if err := cmd.Flags().Parse(flagArgs); err != nil {
		diag.Report(err)
		return errFailed
	}

	if help, _ := cmd.Flags().GetBool("help"); help {
		printHelp(out, programName, cmd.LocalFlags().FlagUsages())
		return nil
	}
	if version, _ := cmd.Flags().GetBool("version"); version {
		fmt.Fprintf(out, "%s version %s\n", programName, Version)
		return nil
	}

	showHistory := cmd.Flags().Changed("history")
	switch {
	case showHistory && len(expression) > 0:
		diag.Printf("--history cannot be combined with an expression")
		return errFailed
	case showHistory && opts.history <= 0:
		diag.Printf("--history needs a positive count, got %d", opts.history)
		return errFailed
	case !showHistory && len(expression) == 0:
		printUsage(out, programName)
		return nil
	}

	cfg, err := config.Load(opts.configPath, overrides(cmd.Flags(), opts))
	if err != nil {
		diag.Report(err)
		return errFailed
	}

	logCfg := cfg.LoggerConfig()
	for i := range logCfg.Outputs {
		if logCfg.Outputs[i].Type == logger.OutputStderr && logCfg.Outputs[i].Writer == nil {
			logCfg.Outputs[i].Writer = errOut
		}
	}
	if err := logger.Init(logCfg); err != nil {
		diag.Report(err)
		return errFailed
	}
	defer logger.Shutdown()

	svc, err := service.NewFindService(cfg, service.Options{Stdout: out, Stderr: errOut})
	if err != nil {
		diag.Report(err)
		return errFailed
	}
	defer svc.Close()

	if showHistory {
		runs, err := svc.History(cmd.Context(), opts.history)
		if err != nil {
			svc.Diagnostics().Report(err)
			return errFailed
		}
		printHistory(out, runs, time.Now())
		return nil
	}

	// the service has already printed whatever went wrong
	if _, err := svc.Run(cmd.Context(), expression); err != nil {
		if domain.IsUsageError(err) {
			logger.Get().Debug("invalid expression", "error", err)
		} else {
			logger.Get().Info("run failed", "error", err)
		}
		return errFailed
	}
	return nil
}

// splitOptions separates the leading --long options from the expression.
// "--" ends the options explicitly; the first argument that is not a
// --long option ends them implicitly.
func splitOptions(fs *pflag.FlagSet, args []string) (flagArgs, rest []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			return args[:i], args[i+1:]
		}
		if !strings.HasPrefix(arg, "--") {
			break
		}
		i++

		name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if hasValue {
			continue
		}
		if f := fs.Lookup(name); f != nil && f.NoOptDefVal == "" && f.Value.Type() != "bool" && i < len(args) {
			i++ // "--option value"
		}
	}
	return args[:i], args[i:]
}

// overrides maps the options given on the command line to config keys
func overrides(fs *pflag.FlagSet, opts *options) map[string]any {
	m := make(map[string]any)
	if fs.Changed("log-level") {
		m["log.level"] = opts.logLevel
	}
	if fs.Changed("log-file") {
		m["log.file.enabled"] = true
		m["log.file.path"] = opts.logFile
	}
	if fs.Changed("color") {
		m["color"] = opts.color
	}
	return m
}
