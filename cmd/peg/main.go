package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/peg"
	"github.com/dhamidi/peg/ebnf"
	"github.com/dhamidi/peg/ruleset"
)

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "peg",
		Short: "Backtracking parser combinators with unification",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadGrammar builds a grammar from a .yaml/.yml rule set or an .ebnf
// grammar file. start overrides the rule set's start symbol and is
// mandatory for EBNF, which declares none.
func loadGrammar(path, start string) (*peg.Grammar, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		g, err := ruleset.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if start != "" {
			g.SetStart(start)
		}
		return g, nil
	case ".ebnf":
		if start == "" {
			return nil, fmt.Errorf("--start is required for EBNF grammars")
		}
		return ebnf.LoadFile(path, start)
	}
	return nil, fmt.Errorf("unknown grammar format: %s", path)
}
