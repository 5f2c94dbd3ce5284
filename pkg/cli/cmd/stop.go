package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/pkg/types"
)

type stopOptions struct {
	all bool
	yes bool
}

var stopOpts = &stopOptions{}

var stopCmd = &cobra.Command{
	Use:   "stop [CLUSTER...]",
	Short: "Stop cluster(s)",
	Long: `Stop cluster(s).

CLUSTER is the name (or glob pattern) of the cluster to stop. If both
CLUSTER and --all are supplied, the latter takes precedence.

Data on attached disks is not lost when a cluster is stopped. Billing for
the instances is stopped, while the disks incur charges. Those disks will
be reattached when restarting the cluster.

Currently, spot instance clusters cannot be stopped.

Examples:
  # Stop a specific cluster
  strato stop dev

  # Stop multiple clusters
  strato stop dev train-a train-b

  # Stop all clusters matching a glob
  strato stop "train-*"

  # Stop all existing clusters
  strato stop -a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		req := &types.OperationRequest{
			Kind:     types.OpStop,
			Patterns: args,
			All:      stopOpts.all,
			Yes:      stopOpts.yes,
		}
		_, err = rt.engine.DownOrStop(cmd.Context(), req)
		return err
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().BoolVarP(&stopOpts.all, "all", "a", false, "stop all existing clusters")
	stopCmd.Flags().BoolVarP(&stopOpts.yes, "yes", "y", false, "skip confirmation prompts")
}
