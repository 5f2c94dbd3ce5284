package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/pkg/types"
)

type downOptions struct {
	all   bool
	yes   bool
	purge bool
}

var downOpts = &downOptions{}

var downCmd = &cobra.Command{
	Use:   "down [CLUSTER...]",
	Short: "Tear down cluster(s)",
	Long: `Tear down cluster(s).

CLUSTER is the name of the cluster (or glob pattern) to tear down. If both
CLUSTER and --all are supplied, the latter takes precedence.

Tearing down a cluster will delete all associated resources (all billing
stops), and any data on the attached disks will be lost. Accelerators
(e.g. GPUs) that are part of the cluster will be deleted too.

Examples:
  # Tear down a specific cluster
  strato down dev

  # Tear down multiple clusters
  strato down dev train-a train-b

  # Tear down all clusters matching a glob
  strato down "train-*"

  # Tear down all existing clusters
  strato down -a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		req := &types.OperationRequest{
			Kind:     types.OpDown,
			Patterns: args,
			All:      downOpts.all,
			Yes:      downOpts.yes,
			Purge:    downOpts.purge,
		}
		_, err = rt.engine.DownOrStop(cmd.Context(), req)
		return err
	},
}

func init() {
	rootCmd.AddCommand(downCmd)

	downCmd.Flags().BoolVarP(&downOpts.all, "all", "a", false, "tear down all existing clusters")
	downCmd.Flags().BoolVarP(&downOpts.yes, "yes", "y", false, "skip confirmation prompts")
	downCmd.Flags().BoolVarP(&downOpts.purge, "purge", "p", false,
		"ignore cloud provider errors (if any) and forcefully remove the cluster from local state")
}
