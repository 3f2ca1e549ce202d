package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kcc/pkg/compiler"
	"kcc/pkg/utils"
)

func (a *app) compileCmd() *cobra.Command {
	var (
		output string
		flags  uint32
	)
	cmd := &cobra.Command{
		Use:   "compile [flags] file...",
		Short: "Compile C source files",
		Long: `Compile each file in its own session. Files are compiled concurrently;
a failure in one file does not stop the others.

Without -o the output of test.c is written to test.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return errors.New("-o can only be used with a single input file")
			}
			if !cmd.Flags().Changed("flags") {
				flags = a.cfg.Compiler.Flags
			}
			if dir := a.cfg.Compiler.OutputDir; dir != "" && output == "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			for _, src := range args {
				if !utils.IsSourceFile(src) {
					a.log.Warn("input does not look like C source", "file", src)
				}
			}

			rep := a.reporter()
			var g errgroup.Group
			g.SetLimit(a.cfg.Compiler.Jobs)
			for _, src := range args {
				src := src
				out := output
				if out == "" {
					out = a.cfg.OutputPath(utils.DefaultOutputPath(src))
				}
				g.Go(func() error {
					status, _ := compiler.CompileFile(src, out, compiler.Flags(flags), a.options(rep))
					if status != compiler.StatusOK {
						return errDiagnosed
					}
					fmt.Fprintf(a.stdout, "%s: compilation successful\n", src)
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single input only)")
	cmd.Flags().Uint32Var(&flags, "flags", 0, "compiler flags bitset (reserved)")
	return cmd
}
