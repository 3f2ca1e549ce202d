package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"kcc/pkg/compiler"
	"kcc/pkg/utils"
	"kcc/pkg/watch"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch file...",
		Short: "Recompile files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(args, a.cfg.Watch.Debounce.Duration, a.log)
			if err != nil {
				return err
			}
			defer w.Close()

			rep := a.reporter()
			flags := compiler.Flags(a.cfg.Compiler.Flags)
			build := func(path string) {
				out := a.cfg.OutputPath(utils.DefaultOutputPath(path))
				if status, _ := compiler.CompileFile(path, out, flags, a.options(rep)); status == compiler.StatusOK {
					fmt.Fprintf(a.stdout, "%s: compilation successful\n", path)
				}
			}
			for _, path := range args {
				build(path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			a.log.Info("watching", "files", len(args))
			return w.Run(ctx, build)
		},
	}
}
