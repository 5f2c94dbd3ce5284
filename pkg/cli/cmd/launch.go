package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/types"
)

type launchOptions struct {
	cluster      string
	cloud        string
	region       string
	instanceType string
	cpus         int
	memory       int
	gpus         string
	spot         bool
	yes          bool
	idleMinutes  int
	down         bool
	retryUntilUp bool
}

var launchOpts = &launchOptions{}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch a cluster",
	Long: `Launch a cluster.

If the named cluster already exists, it is reused: a stopped cluster is
restarted, and a running one is left untouched. In that case any
resource overrides must be no more demanding than what the cluster was
launched with.

Examples:
  # Launch a fresh cluster with an auto-generated name
  strato launch

  # Launch (or reuse) a named cluster
  strato launch -c dev

  # Request a shape
  strato launch -c train --cloud aws --gpus V100:4

  # Autostop after 10 idle minutes
  strato launch -c dev -i 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return types.NewUsageErrorf("`strato launch` takes no positional arguments; use -c/--cluster to name the cluster")
		}
		if launchOpts.down && !cmd.Flags().Changed("idle-minutes-to-autostop") {
			return types.NewUsageErrorf("--idle-minutes-to-autostop must be set if --down is specified")
		}

		requested, err := requestedResources()
		if err != nil {
			return err
		}

		name := launchOpts.cluster
		if name == "" {
			name = generateClusterName()
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		if err := rt.engine.ConfirmLaunch(ctx, name, requested, launchOpts.yes); err != nil {
			return err
		}

		_, err = rt.registry.GetCluster(ctx, name)
		if errors.Is(err, types.ErrClusterNotFound) {
			ref := &types.ClusterRef{
				Name:              name,
				Status:            types.StatusInit,
				LaunchedResources: requested,
				AutostopMinutes:   types.AutostopCancel,
			}
			if err := rt.registry.SaveCluster(ctx, ref); err != nil {
				return fmt.Errorf("failed to register cluster %q: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up cluster %q: %w", name, err)
		}

		idleMinutes := types.AutostopCancel
		if cmd.Flags().Changed("idle-minutes-to-autostop") {
			idleMinutes = launchOpts.idleMinutes
		}
		if err := rt.ops.Start(ctx, name, idleMinutes, launchOpts.retryUntilUp, launchOpts.down, false); err != nil {
			return fmt.Errorf("failed to launch cluster %q: %w", name, err)
		}

		fmt.Println(format.Success("Cluster %s is up.", name))
		fmt.Printf("  To stop the cluster:\t%s\n", format.Highlight("strato stop %s", name))
		fmt.Printf("  To tear it down:\t%s\n", format.Highlight("strato down %s", name))
		return nil
	},
}

// requestedResources builds the resource overrides from flags, parsing the
// GPU spec of the form NAME or NAME:COUNT.
func requestedResources() (*types.Resources, error) {
	r := &types.Resources{
		Cloud:        launchOpts.cloud,
		Region:       launchOpts.region,
		InstanceType: launchOpts.instanceType,
		CPUs:         launchOpts.cpus,
		MemoryGB:     launchOpts.memory,
		Spot:         launchOpts.spot,
	}
	if launchOpts.gpus != "" {
		name, countStr, found := strings.Cut(launchOpts.gpus, ":")
		count := 1
		if found {
			parsed, err := strconv.Atoi(countStr)
			if err != nil || parsed < 1 {
				return nil, types.NewUsageErrorf("invalid --gpus spec %q (expected NAME or NAME:COUNT)", launchOpts.gpus)
			}
			count = parsed
		}
		r.Accelerator = name
		r.AcceleratorCount = count
	}
	return r, nil
}

func generateClusterName() string {
	return "strato-" + uuid.NewString()[:8]
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringVarP(&launchOpts.cluster, "cluster", "c", "", "name of the cluster to launch or reuse")
	launchCmd.Flags().StringVar(&launchOpts.cloud, "cloud", "", "cloud provider to launch on")
	launchCmd.Flags().StringVar(&launchOpts.region, "region", "", "region to launch in")
	launchCmd.Flags().StringVar(&launchOpts.instanceType, "instance-type", "", "instance type to use")
	launchCmd.Flags().IntVar(&launchOpts.cpus, "cpus", 0, "number of vCPUs required")
	launchCmd.Flags().IntVar(&launchOpts.memory, "memory", 0, "memory in GB required")
	launchCmd.Flags().StringVar(&launchOpts.gpus, "gpus", "", "accelerators required, e.g. V100 or V100:4")
	launchCmd.Flags().BoolVar(&launchOpts.spot, "spot", false, "use spot instances")
	launchCmd.Flags().BoolVarP(&launchOpts.yes, "yes", "y", false, "skip confirmation prompts")
	launchCmd.Flags().IntVarP(&launchOpts.idleMinutes, "idle-minutes-to-autostop", "i", 0,
		"automatically stop the cluster after this many minutes of idleness")
	launchCmd.Flags().BoolVar(&launchOpts.down, "down", false,
		"autodown instead of autostop (requires --idle-minutes-to-autostop)")
	launchCmd.Flags().BoolVarP(&launchOpts.retryUntilUp, "retry-until-up", "r", false,
		"retry provisioning infinitely until the cluster is up")
}
