package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/types"
)

type statusOptions struct {
	output string
}

var statusOpts = &statusOptions{}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show clusters",
	Long: `Show clusters.

The returned information includes the cluster name, time since last
launch, launched resources, status and any scheduled autostop.

Examples:
  # Show all clusters
  strato status

  # Machine-readable output
  strato status -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		clusters, err := rt.registry.ListClusters(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list clusters: %w", err)
		}

		switch statusOpts.output {
		case "json":
			return outputJSON(os.Stdout, clusters)
		case "yaml":
			return outputYAML(os.Stdout, clusters)
		case "", "table":
			renderStatusTables(clusters)
			return nil
		default:
			return types.NewUsageErrorf("unsupported output format %q (expected table, json or yaml)", statusOpts.output)
		}
	},
}

func renderStatusTables(clusters []*types.ClusterRef) {
	var ordinary, reserved []*types.ClusterRef
	for _, c := range clusters {
		if c.IsReserved() {
			reserved = append(reserved, c)
		} else {
			ordinary = append(ordinary, c)
		}
	}

	fmt.Println(pterm.Bold.Sprint("Clusters"))
	if len(ordinary) == 0 {
		fmt.Println("No existing clusters.")
	} else {
		renderClusterTable(ordinary)
	}

	if len(reserved) > 0 {
		fmt.Println()
		fmt.Println(pterm.Bold.Sprint("Controllers"))
		renderClusterTable(reserved)
	}
}

func renderClusterTable(clusters []*types.ClusterRef) {
	data := pterm.TableData{{"NAME", "LAUNCHED", "RESOURCES", "STATUS", "AUTOSTOP"}}
	for _, c := range clusters {
		data = append(data, []string{
			c.Name,
			timeAgo(c.LaunchedAt),
			resourcesCell(c.LaunchedResources),
			format.StatusLabel(string(c.Status)),
			autostopCell(c),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		// Degrade to plain rows if the terminal rejects the table.
		for _, row := range data {
			fmt.Println(joinNames(row))
		}
	}
}

func resourcesCell(r *types.Resources) string {
	if r == nil || r.Empty() {
		return "-"
	}
	return r.String()
}

func autostopCell(c *types.ClusterRef) string {
	if !c.AutostopSet() {
		return "-"
	}
	suffix := ""
	if c.Autodown {
		suffix = " (down)"
	}
	return fmt.Sprintf("%d min%s", c.AutostopMinutes, suffix)
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d day(s) ago", int(d.Hours()/24))
	}
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += "  "
		}
		out += name
	}
	return out
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.output, "output", "o", "table", "output format (table, json, yaml)")
}
