package main

import (
	"os"

	"github.com/simonhull/firebird-suite/passgen/internal/commands"
	"github.com/simonhull/firebird-suite/passgen/internal/output"
)

func main() {
	if err := commands.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(commands.ExitCode(err))
	}
}
