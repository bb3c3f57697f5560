package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
)

var (
	messagesPage   int
	messagesStatus string
	messagesSearch string
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Monitor delivery messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		page, err := a.client.GetMessages(cmd.Context(), mailer.MessageQuery{
			Page:    messagesPage,
			PerPage: a.cfg.Output.PageSize,
			Status:  messagesStatus,
			Search:  messagesSearch,
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(page)
		}

		if len(page.Data) == 0 {
			fmt.Println(headerStyle.Render("No messages found"))
			return nil
		}
		rows := make([][]string, 0, len(page.Data))
		for _, m := range page.Data {
			detail := m.SentAt
			if m.ErrorMessage != "" {
				detail = errorStyle.Render(truncate(m.ErrorMessage, 30))
			}
			rows = append(rows, []string{
				strconv.Itoa(m.ID), truncate(m.CampaignName, 25), m.RecipientEmail,
				renderStatus(m.Status), detail,
			})
		}
		renderTable([]string{"ID", "Campaign", "Recipient", "Status", "Sent / Error"}, rows)
		pageFooter(page.CurrentPage, page.LastPage, page.Total)
		return nil
	},
}

func init() {
	messagesCmd.Flags().IntVar(&messagesPage, "page", 1, "Page number")
	messagesCmd.Flags().StringVar(&messagesStatus, "status", "", "Filter by delivery status")
	messagesCmd.Flags().StringVar(&messagesSearch, "search", "", "Filter by recipient or campaign name")
	rootCmd.AddCommand(messagesCmd)
}
