package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kcc/pkg/compiler"
)

func (a *app) dumpFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = a.cfg.Dump.Format
	}
	if format != "text" && format != "yaml" {
		return "", fmt.Errorf("unknown format %q, want text or yaml", format)
	}
	return format, nil
}

// openAndLex starts a session on path and lexes it. Errors are reported
// before they are returned.
func (a *app) openAndLex(path string, rep *compiler.Reporter) (*compiler.Process, error) {
	proc, err := compiler.NewProcess(path, "", 0, a.options(rep))
	if err != nil {
		rep.Error(err)
		return nil, errDiagnosed
	}
	if err := proc.Lex(); err != nil {
		proc.Close()
		rep.Error(err)
		return nil, errDiagnosed
	}
	return proc, nil
}

func (a *app) tokensCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokens file",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.dumpFormat(format)
			if err != nil {
				return err
			}
			proc, err := a.openAndLex(args[0], a.reporter())
			if err != nil {
				return err
			}
			defer proc.Close()

			if f == "yaml" {
				return compiler.DumpTokensYAML(a.stdout, proc.Tokens)
			}
			return compiler.DumpTokens(a.stdout, proc.Tokens)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: text or yaml (default from config)")
	return cmd
}

func (a *app) astCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast file",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.dumpFormat(format)
			if err != nil {
				return err
			}
			rep := a.reporter()
			proc, err := a.openAndLex(args[0], rep)
			if err != nil {
				return err
			}
			defer proc.Close()
			if err := proc.Parse(); err != nil {
				rep.Error(err)
				return errDiagnosed
			}

			if f == "yaml" {
				return compiler.DumpASTYAML(a.stdout, proc.AST)
			}
			return compiler.DumpAST(a.stdout, proc.AST)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: text or yaml (default from config)")
	return cmd
}
