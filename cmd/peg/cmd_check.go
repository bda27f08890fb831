package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Load and validate a grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0], start)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			if err := g.Validate(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (start %q)\n", args[0], g.Start())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start symbol (required for .ebnf grammars)")

	return cmd
}
