package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kcc/pkg/version"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(a.stdout, version.String())
		},
	}
}
