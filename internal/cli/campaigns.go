package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
)

var (
	campaignsStatus string

	campaignName       string
	campaignSubject    string
	campaignFromName   string
	campaignFromEmail  string
	campaignBodyFile   string
	campaignTemplateID int

	previewContactID int
	scheduleAt       string
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Manage email campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		campaigns, err := a.client.GetCampaigns(cmd.Context(), campaignsStatus)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(campaigns)
		}

		if len(campaigns) == 0 {
			fmt.Println(headerStyle.Render("No campaigns found"))
			return nil
		}
		rows := make([][]string, 0, len(campaigns))
		for _, c := range campaigns {
			rows = append(rows, []string{
				strconv.Itoa(c.ID), truncate(c.Name, 35), truncate(c.Subject, 35), renderStatus(c.Status),
			})
		}
		renderTable([]string{"ID", "Name", "Subject", "Status"}, rows)
		return nil
	},
}

var campaignsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a campaign's full record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}

		detail, err := a.client.GetCampaign(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(detail)
		}

		fmt.Println(titleStyle.Render(detail.Name))
		fmt.Printf("Subject:  %s\n", detail.Subject)
		fmt.Printf("From:     %s <%s>\n", detail.FromName, detail.FromEmail)
		fmt.Printf("Status:   %s\n", renderStatus(detail.Status))
		if detail.ScheduledAt != "" {
			fmt.Printf("Sends at: %s\n", detail.ScheduledAt)
		}
		if len(detail.Lists) > 0 {
			fmt.Println("Audience:")
			for _, l := range detail.Lists {
				fmt.Printf("  #%d %s (%d contacts)\n", l.ID, l.Name, l.ContactsCount)
			}
		} else {
			fmt.Println(dimStyle.Render("Audience: none (set one with `campaigns audience`)"))
		}
		return nil
	},
}

var campaignsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		input := mailer.CampaignInput{
			Name:       campaignName,
			Subject:    campaignSubject,
			FromName:   campaignFromName,
			FromEmail:  campaignFromEmail,
			TemplateID: campaignTemplateID,
		}
		if campaignBodyFile != "" {
			body, err := os.ReadFile(campaignBodyFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", campaignBodyFile, err)
			}
			input.HTMLBody = string(body)
		}

		detail, err := a.client.CreateCampaign(cmd.Context(), input)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(detail)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Created campaign #%d (%s)", detail.ID, detail.Name)))
		return nil
	},
}

var campaignsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a draft campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}

		input := mailer.CampaignInput{
			Name:      campaignName,
			Subject:   campaignSubject,
			FromName:  campaignFromName,
			FromEmail: campaignFromEmail,
		}
		if campaignBodyFile != "" {
			body, err := os.ReadFile(campaignBodyFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", campaignBodyFile, err)
			}
			input.HTMLBody = string(body)
		}

		detail, err := a.client.UpdateCampaign(cmd.Context(), id, input)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Updated campaign #%d", detail.ID)))
		return nil
	},
}

var campaignsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}
		if err := a.client.DeleteCampaign(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Deleted campaign #%d", id)))
		return nil
	},
}

var campaignsAudienceCmd = &cobra.Command{
	Use:   "audience <id> <list-id>...",
	Short: "Set which lists a campaign sends to",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}
		listIDs := make([]int, 0, len(args)-1)
		for _, arg := range args[1:] {
			listID, err := parseID(arg, "list")
			if err != nil {
				return err
			}
			listIDs = append(listIDs, listID)
		}

		if err := a.client.SetCampaignAudience(cmd.Context(), id, listIDs); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Audience for campaign #%d set to %d list(s)", id, len(listIDs))))
		return nil
	},
}

var campaignsPreviewCmd = &cobra.Command{
	Use:   "preview <id>",
	Short: "Render the campaign for one contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}

		html, err := a.client.PreviewCampaign(cmd.Context(), id, previewContactID)
		if err != nil {
			return err
		}
		fmt.Println(html)
		return nil
	},
}

var campaignsScheduleCmd = &cobra.Command{
	Use:   "schedule <id>",
	Short: "Schedule a draft campaign to send later",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}
		at, err := time.Parse(time.RFC3339, scheduleAt)
		if err != nil {
			return fmt.Errorf("invalid --at time %q (want RFC 3339, e.g. 2026-09-01T09:00:00Z)", scheduleAt)
		}

		if err := a.client.ScheduleCampaign(cmd.Context(), id, at.Format(time.RFC3339)); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Campaign #%d scheduled for %s", id, at.Format(time.RFC1123))))
		return nil
	},
}

var campaignsSendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Send a campaign to its audience now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}
		if err := a.client.SendCampaignNow(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Campaign #%d is sending", id)))
		return nil
	},
}

var campaignsStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show a campaign's delivery rollup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0], "campaign")
		if err != nil {
			return err
		}

		stats, err := a.client.GetCampaignStats(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(stats)
		}

		renderTable([]string{"Metric", "Value"}, [][]string{
			{"Total messages", strconv.Itoa(stats.TotalMessages)},
			{"Delivered", strconv.Itoa(stats.DeliveredCount)},
			{"Opened", strconv.Itoa(stats.OpenedCount)},
			{"Clicked", strconv.Itoa(stats.ClickedCount)},
			{"Failed", strconv.Itoa(stats.FailedCount)},
			{"Open rate", fmt.Sprintf("%.1f%%", stats.OpenRate)},
			{"Click rate", fmt.Sprintf("%.1f%%", stats.ClickRate)},
		})
		return nil
	},
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, arg)
	}
	return id, nil
}

func init() {
	campaignsListCmd.Flags().StringVar(&campaignsStatus, "status", "", "Filter by status (draft, scheduled, sending, sent, failed)")

	for _, cmd := range []*cobra.Command{campaignsCreateCmd, campaignsUpdateCmd} {
		cmd.Flags().StringVar(&campaignName, "name", "", "Campaign name")
		cmd.Flags().StringVar(&campaignSubject, "subject", "", "Email subject line")
		cmd.Flags().StringVar(&campaignFromName, "from-name", "", "Sender display name")
		cmd.Flags().StringVar(&campaignFromEmail, "from-email", "", "Sender address")
		cmd.Flags().StringVar(&campaignBodyFile, "body-file", "", "Path to the HTML body")
	}
	campaignsCreateCmd.Flags().IntVar(&campaignTemplateID, "template", 0, "Seed the body from a template ID")

	campaignsPreviewCmd.Flags().IntVar(&previewContactID, "contact", 0, "Contact ID to personalize with")
	_ = campaignsPreviewCmd.MarkFlagRequired("contact")

	campaignsScheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "Send time, RFC 3339")
	_ = campaignsScheduleCmd.MarkFlagRequired("at")

	campaignsCmd.AddCommand(campaignsListCmd, campaignsShowCmd, campaignsCreateCmd,
		campaignsUpdateCmd, campaignsDeleteCmd, campaignsAudienceCmd, campaignsPreviewCmd,
		campaignsScheduleCmd, campaignsSendCmd, campaignsStatsCmd)
	rootCmd.AddCommand(campaignsCmd)
}
