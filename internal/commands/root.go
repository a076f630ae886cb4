package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/passgen"
)

// options holds every flag of the root command
type options struct {
	length   int
	template string
	set      string
	file     string
	count    int

	verbose    int
	logFile    string
	configPath string

	remainder         string
	onUnresolved      string
	persistExclusions bool
}

// RootCmd creates and returns the root command for the passgen CLI
func RootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "passgen",
		Short: "Generate passwords from lengths, character sets and templates",
		Long: `passgen generates passwords from a length, a character set or a template.

A template is a string defining the layout of the new password:

  u\-l              K-f         (codes draw one character, \ escapes)
  a{3}              aaa         ({n} repeats the character before it)
  [dl]{5}           x3k9q       ({n} with a custom set draws n characters)
  u[dl]             4fK         (custom sets are drawn first)

A set combines codes, escaped literals and two operators:

  dl\_       digits, lowercase letters and '_'
  dl|uh      either "dl" or "uh"
  dlu^0O1lI  without look-alike characters

Run "passgen codes" for the list of codes.`,
		Example: `  passgen -n 16
  passgen -S 'dlu^0O1lI' -n 20 -c 5
  passgen -t 'u\-l\-dddd'
  passgen -f pattern.txt -vv -l passgen.log`,
		Version:       passgen.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.length, "length", "n", 0, "Set length of password")
	flags.StringVarP(&opts.template, "template", "t", "", "Set template for generated passwords")
	flags.StringVarP(&opts.set, "set", "S", "", "Character set specification")
	flags.StringVarP(&opts.file, "file", "f", "", "Read the template from a file")
	flags.IntVarP(&opts.count, "count", "c", 1, "Number of passwords")
	flags.StringVar(&opts.remainder, "remainder", "", "Template remainder mode: positional or membership")
	flags.StringVar(&opts.onUnresolved, "on-unresolved", "", "Undefined template characters: drop, keep or fail")
	flags.BoolVar(&opts.persistExclusions, "persist-exclusions", false, "Keep '^' exclusions for the rest of the batch")

	persistent := cmd.PersistentFlags()
	persistent.CountVarP(&opts.verbose, "verbose", "v", "Verbose mode (-v | -vv | -vvv)")
	persistent.StringVarP(&opts.logFile, "log", "l", "", "Log file path")
	persistent.StringVar(&opts.configPath, "config", "", "Path to passgen.yml")

	cmd.AddCommand(codesCmd(opts))
	cmd.AddCommand(configCmd(opts))
	cmd.AddCommand(versionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return RootCmd().Execute()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "passgen v%s\n", passgen.Version)
		},
	}
}
