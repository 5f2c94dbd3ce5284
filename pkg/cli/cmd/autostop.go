package cmd

import (
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/internal/config"
	"github.com/strato-sh/strato/pkg/types"
)

type autostopOptions struct {
	all         bool
	yes         bool
	idleMinutes int
	cancel      bool
	down        bool
}

var autostopOpts = &autostopOptions{}

var autostopCmd = &cobra.Command{
	Use:   "autostop [CLUSTER...]",
	Short: "Schedule an autostop or autodown for cluster(s)",
	Long: `Schedule an autostop or autodown for cluster(s).

Autostop will automatically stop a cluster when it becomes idle, while
autodown will tear it down. If a previous autostop or autodown was
scheduled, setting it again overwrites the previous setting.

CLUSTER is the name (or glob pattern) of the cluster to schedule
autostop for. If both CLUSTER and --all are supplied, the latter takes
precedence.

Idleness is the time since the last recorded activity on the cluster.

Examples:
  # Autostop this cluster after 10 minutes of idleness
  strato autostop dev -i 10

  # Cancel autostop on this cluster
  strato autostop dev --cancel

  # Since autostop was canceled, this command will stop after 5 minutes
  # of idleness (the default)
  strato autostop dev`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if autostopOpts.cancel && cmd.Flags().Changed("idle-minutes") {
			return types.NewUsageErrorf("only one of --idle-minutes and --cancel should be specified")
		}

		idleMinutes := autostopOpts.idleMinutes
		if autostopOpts.cancel {
			idleMinutes = types.AutostopCancel
		} else if !cmd.Flags().Changed("idle-minutes") {
			idleMinutes = config.DefaultIdleMinutes
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		req := &types.OperationRequest{
			Kind:           types.OpSetAutostop,
			Patterns:       args,
			All:            autostopOpts.all,
			Yes:            autostopOpts.yes,
			IdleMinutes:    idleMinutes,
			IdleMinutesSet: true,
			Autodown:       autostopOpts.down,
		}
		_, err = rt.engine.DownOrStop(cmd.Context(), req)
		return err
	},
}

func init() {
	rootCmd.AddCommand(autostopCmd)

	autostopCmd.Flags().BoolVarP(&autostopOpts.all, "all", "a", false, "apply this command to all existing clusters")
	autostopCmd.Flags().BoolVarP(&autostopOpts.yes, "yes", "y", false, "skip confirmation prompts")
	autostopCmd.Flags().IntVarP(&autostopOpts.idleMinutes, "idle-minutes", "i", config.DefaultIdleMinutes,
		"set the idle minutes before autostopping the cluster")
	autostopCmd.Flags().BoolVar(&autostopOpts.cancel, "cancel", false, "cancel any currently active auto{stop,down} setting")
	autostopCmd.Flags().BoolVar(&autostopOpts.down, "down", false,
		"use autodown (tear down the cluster; non-restartable) instead of autostop (restartable)")
}
