package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/passgen/internal/config"
	"github.com/simonhull/firebird-suite/passgen/internal/input"
	"github.com/simonhull/firebird-suite/passgen/internal/output"
)

// configCmd returns the config command with init/show subcommands
func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage passgen.yml",
		Long:  "Write a default passgen.yml or show the effective configuration",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd(opts))

	return cmd
}

// configInitCmd writes a default passgen.yml
func configInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default passgen.yml",
		Long: `Write a passgen.yml holding the default settings.

An existing file is only replaced after confirmation, or with --force.

Example:
  passgen config init
  passgen config init --path ~/.config/passgen/passgen.yml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stat(path)
			switch {
			case err == nil:
				if !force && !input.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite?", path), false) {
					output.Info("Keeping existing " + path)
					return nil
				}
			case !errors.Is(err, fs.ErrNotExist):
				return &ExitError{Code: ExitBadOption, Err: fmt.Errorf("checking %s: %w", path, err)}
			}

			if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
				if errors.Is(err, fs.ErrPermission) {
					return exitErrorf(ExitPermissionDenied, "permission denied for file: %s", path)
				}
				return &ExitError{Code: ExitBadOption, Err: fmt.Errorf("writing %s: %w", path, err)}
			}

			output.Success("Wrote " + path)
			output.Step("PASSGEN_* environment variables and flags override it")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file without asking")
	cmd.Flags().StringVar(&path, "path", config.FileName, "Where to write the config file")

	return cmd
}

// configShowCmd prints the effective configuration as YAML
func configShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Show the configuration after defaults, passgen.yml and PASSGEN_* variables are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return &ExitError{Code: ExitBadOption, Err: err}
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
