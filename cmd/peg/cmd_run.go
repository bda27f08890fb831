package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/peg"
)

func newRunCmd() *cobra.Command {
	var start string
	var all bool
	var at int

	cmd := &cobra.Command{
		Use:           "run <grammar> <input>",
		Short:         "Parse input with a grammar file and print derivations",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0], start)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			input := peg.Text(args[1])
			derivations := 0
			for result, next := range g.Derive(input, at) {
				encoded, err := json.Marshal(peg.Unpack(result))
				if err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t[%d:%d]\n", encoded, at, next)
				derivations++
				if !all {
					break
				}
			}
			if derivations == 0 {
				err := fmt.Errorf("%s: input has no derivation from %q", args[0], g.Start())
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start symbol (required for .ebnf grammars)")
	cmd.Flags().BoolVar(&all, "all", false, "print every derivation instead of the first")
	cmd.Flags().IntVar(&at, "at", 0, "start position in the input")

	return cmd
}
