package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the workspace's plan usage this billing period",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		usage, err := a.client.GetUsage(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(usage)
		}

		fmt.Println(titleStyle.Render(usage.Plan.Name + " plan"))
		fmt.Println(dimStyle.Render(fmt.Sprintf("Period: %s to %s", usage.Period.Start, usage.Period.End)))
		fmt.Println()
		renderTable([]string{"Metric", "Used", "Limit", "Remaining"}, [][]string{
			{
				"Credits",
				strconv.Itoa(usage.Usage.CreditsUsed),
				strconv.Itoa(usage.Plan.MonthlyCredits),
				strconv.Itoa(usage.Remaining.Credits),
			},
			{
				"Recipients",
				strconv.Itoa(usage.Usage.RecipientsSent),
				strconv.Itoa(usage.Plan.MonthlyRecipientLimit),
				strconv.Itoa(usage.Remaining.Recipients),
			},
		})
		fmt.Println()
		fmt.Println(dimStyle.Render(fmt.Sprintf("Max recipients per campaign: %d", usage.Plan.MaxRecipientsPerCampaign)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
