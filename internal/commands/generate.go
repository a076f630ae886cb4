package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/simonhull/firebird-suite/passgen/internal/config"
	"github.com/simonhull/firebird-suite/passgen/internal/generator"
	"github.com/simonhull/firebird-suite/passgen/internal/logger"
	"github.com/simonhull/firebird-suite/passgen/internal/pattern"
)

func runGenerate(cmd *cobra.Command, opts *options) error {
	flags := cmd.Flags()

	if err := opts.validate(flags); err != nil {
		return &ExitError{Code: ExitBadOption, Err: err}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return &ExitError{Code: ExitBadOption, Err: err}
	}

	log, closeLog, err := setupLogger(cmd, opts, cfg)
	if err != nil {
		return &ExitError{Code: ExitBadOption, Err: err}
	}
	defer closeLog()

	gen, err := newGenerator(flags, opts, cfg, log)
	if err != nil {
		return &ExitError{Code: ExitBadOption, Err: err}
	}

	requests, err := opts.requests(flags, cfg, log)
	if err != nil {
		return err
	}

	count := cfg.Count
	if flags.Changed("count") {
		count = opts.count
	}

	out := cmd.OutOrStdout()
	var failures []error
	for _, req := range requests {
		log.Debug("generating passwords", logger.F("mode", req.Mode()), logger.F("count", count))

		passwords, err := gen.Batch(req, count)
		for _, password := range passwords {
			fmt.Fprintln(out, password)
		}
		if err != nil {
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return &ExitError{Code: ExitGenerationFailed, Err: errors.Join(failures...)}
	}
	return nil
}

// validate rejects conflicting and out-of-range flags
func (o *options) validate(flags *pflag.FlagSet) error {
	switch {
	case o.template != "" && o.set != "":
		return fmt.Errorf("%w: -t and -S cannot be used together, choose only one", ErrConflict)
	case o.set != "" && o.file != "":
		return fmt.Errorf("%w: -S and -f cannot be used together, choose only one", ErrConflict)
	case o.template != "" && flags.Changed("length"):
		return fmt.Errorf("%w: -n cannot be used with -t, the template defines the length", ErrConflict)
	case flags.Changed("length") && o.length < 1:
		return fmt.Errorf("%w: invalid length %d", ErrConflict, o.length)
	case flags.Changed("count") && o.count < 1:
		return fmt.Errorf("%w: invalid count %d", ErrConflict, o.count)
	}
	return nil
}

// requests builds one request per requested mode, template first
func (o *options) requests(flags *pflag.FlagSet, cfg *config.Config, log logger.Logger) ([]generator.Request, error) {
	length := cfg.Length
	if flags.Changed("length") {
		length = o.length
	}

	var requests []generator.Request

	if o.template != "" {
		requests = append(requests, generator.Request{Template: o.template})
	}

	if o.file != "" {
		if flags.Changed("length") {
			log.Warn("-n is ignored with -f, the template defines the length")
		}
		tmpl, err := readTemplate(o.file)
		if err != nil {
			return nil, err
		}
		log.Info("reading template from file", logger.F("file", o.file))
		requests = append(requests, generator.Request{Template: tmpl})
	}

	if o.set != "" {
		requests = append(requests, generator.Request{Set: o.set, Length: length})
	}

	if len(requests) == 0 {
		requests = append(requests, generator.Request{Length: length})
	}
	return requests, nil
}

// readTemplate returns the file contents without one trailing line break
func readTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", exitErrorf(ExitFileNotFound, "file %s does not exist", path)
	case errors.Is(err, fs.ErrPermission):
		return "", exitErrorf(ExitPermissionDenied, "permission denied for file: %s", path)
	case err != nil:
		return "", exitErrorf(ExitBadOption, "reading template file: %w", err)
	}

	tmpl := strings.TrimSuffix(string(data), "\n")
	tmpl = strings.TrimSuffix(tmpl, "\r")
	if tmpl == "" {
		return "", exitErrorf(ExitBadOption, "template file %s is empty", path)
	}
	return tmpl, nil
}

// setupLogger routes logs to stderr or the -l file at the -v level and
// installs the result as the package default. The returned func closes the
// log file, if any, and restores the previous default.
func setupLogger(cmd *cobra.Command, opts *options, cfg *config.Config) (logger.Logger, func(), error) {
	path := cfg.Log.File
	if opts.logFile != "" {
		path = opts.logFile
	}

	var (
		out     io.Writer = cmd.ErrOrStderr()
		closeFn           = func() {}
	)
	if path != "" {
		f, err := logger.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	log := logger.NewLogger(logger.ForVerbosity(cfg.Log.Verbosity), out)
	if cmd.Flags().Changed("verbose") {
		log.SetLevel(logger.ForVerbosity(opts.verbose))
	}

	previous := logger.Default()
	logger.SetDefault(log)
	restore := func() {
		logger.SetDefault(previous)
		closeFn()
	}

	logger.Debug("using verbose mode", logger.F("verbosity", opts.verbose))
	if path != "" {
		logger.Debug("logging to file", logger.F("file", path))
	}
	return log, restore, nil
}

// newGenerator applies flags over config values
func newGenerator(flags *pflag.FlagSet, opts *options, cfg *config.Config, log logger.Logger) (*generator.Generator, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	mode, err := cfg.RemainderMode()
	if flags.Changed("remainder") {
		mode, err = pattern.ParseRemainderMode(opts.remainder)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConflict, err)
	}

	policy, err := cfg.UnresolvedPolicy()
	if flags.Changed("on-unresolved") {
		policy, err = pattern.ParseUnresolvedPolicy(opts.onUnresolved)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConflict, err)
	}

	persist := cfg.Exclusions.Persist
	if flags.Changed("persist-exclusions") {
		persist = opts.persistExclusions
	}

	return generator.New(
		generator.WithRegistry(reg),
		generator.WithLogger(log),
		generator.WithRemainder(mode),
		generator.WithUnresolvedPolicy(policy),
		generator.WithPersistentExclusions(persist),
	), nil
}
