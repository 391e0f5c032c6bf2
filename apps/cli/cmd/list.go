package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
	"github.com/spf13/cobra"
)

var listJSONFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the checks in execution order",
	Long: `List the checks a full run executes, in order, with the request each one
sends and the status it expects.

Examples:
  goalcheck list
  goalcheck list --json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: listCommand,
}

func init() {
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "Print the plan as JSON")
}

func listCommand(cmd *cobra.Command, args []string) error {
	plan := runner.Plan()
	out := cmd.OutOrStdout()

	if listJSONFlag {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plan)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSECTION\tCHECK\tREQUEST\tEXPECT\tREQUIRES")
	for i, c := range plan {
		section := c.Section
		if section == "" {
			section = "-"
		}
		requires := c.Requires
		if requires == "" {
			requires = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%d\t%s\n", i+1, section, c.Name, c.Method, c.Endpoint, c.ExpectedStatus, requires)
	}
	return tw.Flush()
}
