package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/knit/internal/domain"
	m "github.com/mouse-blink/knit/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <entry>",
		Short: "List the modules a bundle would contain",
		Long:  listLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyVerbosity()

			_, opts, err := bundleConfig(cmd)
			if err != nil {
				return err
			}

			return workflow.Inspect(domain.InspectArgs{
				Entry:   m.Path(args[0]),
				Options: opts,
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
