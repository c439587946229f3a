package cmd

import (
	"github.com/mouse-blink/knit/internal/domain"
	m "github.com/mouse-blink/knit/internal/model"
	"github.com/spf13/cobra"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <entry>",
		Short: "Browse the modules of a bundle interactively",
		Long:  viewLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyVerbosity()

			_, opts, err := bundleConfig(cmd)
			if err != nil {
				return err
			}

			return workflow.View(domain.ViewArgs{
				InspectArgs: domain.InspectArgs{
					Entry:   m.Path(args[0]),
					Options: opts,
				},
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
