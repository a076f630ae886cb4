package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/config"
	"github.com/simonhull/firebird-suite/passgen/internal/output"
)

// codesCmd lists the alphabet codes usable in sets and templates
func codesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List alphabet codes",
		Long: `List every alphabet code with its characters.

Custom codes from passgen.yml are included.

Example:
  passgen codes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return &ExitError{Code: ExitBadOption, Err: err}
			}
			reg, err := cfg.Registry()
			if err != nil {
				return &ExitError{Code: ExitBadOption, Err: err}
			}

			width := 0
			if f, ok := cmd.OutOrStdout().(*os.File); ok {
				width = output.Width(f)
			}
			return writeCodes(cmd.OutOrStdout(), reg.Entries(), width)
		},
	}

	return cmd
}

// writeCodes prints one row per code. A positive width truncates the
// characters column to fit the terminal.
func writeCodes(w io.Writer, entries []alphabet.Info, width int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tDESCRIPTION\tCHARACTERS")

	for _, e := range entries {
		chars := strconv.Quote(e.Chars)
		if width > 0 {
			// code and description columns take roughly 40 cells
			chars = truncate(chars, width-40)
		}
		fmt.Fprintf(tw, "%c\t%s\t%s\n", e.Code, e.Description, chars)
	}

	return tw.Flush()
}

func truncate(s string, limit int) string {
	if limit < 8 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
