package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/pkg/types"
)

type startOptions struct {
	all          bool
	yes          bool
	idleMinutes  int
	down         bool
	retryUntilUp bool
	force        bool
}

var startOpts = &startOptions{}

var startCmd = &cobra.Command{
	Use:   "start [CLUSTER...]",
	Short: "Restart cluster(s)",
	Long: `Restart cluster(s).

If a cluster is previously stopped (status is STOPPED) or failed in
provisioning or runtime setup (status is INIT), this command will attempt
to start the cluster. In the latter case, provisioning and runtime setup
will be retried.

Auto-failover provisioning is not used when restarting a stopped cluster.
It will be restarted on the same cloud, region, and zone that were
previously used.

Examples:
  # Restart a specific cluster
  strato start dev

  # Restart multiple clusters
  strato start dev train-a

  # Restart all stopped clusters
  strato start -a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		req := &types.OperationRequest{
			Kind:           types.OpStart,
			Patterns:       args,
			All:            startOpts.all,
			Yes:            startOpts.yes,
			IdleMinutes:    startOpts.idleMinutes,
			IdleMinutesSet: cmd.Flags().Changed("idle-minutes-to-autostop"),
			Autodown:       startOpts.down,
			RetryUntilUp:   startOpts.retryUntilUp,
			Force:          startOpts.force,
		}
		_, err = rt.engine.Start(cmd.Context(), req)
		return err
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVarP(&startOpts.all, "all", "a", false, "start all existing clusters")
	startCmd.Flags().BoolVarP(&startOpts.yes, "yes", "y", false, "skip confirmation prompts")
	startCmd.Flags().IntVarP(&startOpts.idleMinutes, "idle-minutes-to-autostop", "i", 0,
		"automatically stop the cluster after this many minutes of idleness once started")
	startCmd.Flags().BoolVar(&startOpts.down, "down", false,
		"autodown the cluster: tear down the cluster after the specified idle time (requires --idle-minutes-to-autostop)")
	startCmd.Flags().BoolVarP(&startOpts.retryUntilUp, "retry-until-up", "r", false,
		"retry provisioning infinitely until the cluster is up, if we fail to start the cluster due to unavailability errors")
	startCmd.Flags().BoolVarP(&startOpts.force, "force", "f", false,
		"start the cluster even if it is already UP; useful for upgrading the cluster runtime")
}
