package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
)

var (
	contactsPage   int
	contactsSearch string

	contactEmail     string
	contactFirstName string
	contactLastName  string
	contactPhone     string
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage subscriber contacts",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		page, err := a.client.GetContacts(cmd.Context(), mailer.ContactQuery{
			Page:    contactsPage,
			PerPage: a.cfg.Output.PageSize,
			Search:  contactsSearch,
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(page)
		}

		if len(page.Data) == 0 {
			fmt.Println(headerStyle.Render("No contacts found"))
			return nil
		}
		rows := make([][]string, 0, len(page.Data))
		for _, c := range page.Data {
			name := c.FirstName + " " + c.LastName
			rows = append(rows, []string{
				strconv.Itoa(c.ID), c.Email, truncate(name, 30), c.Phone,
			})
		}
		renderTable([]string{"ID", "Email", "Name", "Phone"}, rows)
		pageFooter(page.CurrentPage, page.LastPage, page.Total)
		return nil
	},
}

var contactsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		contact, err := a.client.CreateContact(cmd.Context(), mailer.ContactInput{
			Email:     contactEmail,
			FirstName: contactFirstName,
			LastName:  contactLastName,
			Phone:     contactPhone,
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(contact)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Created contact #%d (%s)", contact.ID, contact.Email)))
		return nil
	},
}

var contactsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact ID %q", args[0])
		}

		contact, err := a.client.UpdateContact(cmd.Context(), id, mailer.ContactInput{
			Email:     contactEmail,
			FirstName: contactFirstName,
			LastName:  contactLastName,
			Phone:     contactPhone,
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(contact)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Updated contact #%d", contact.ID)))
		return nil
	},
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact ID %q", args[0])
		}
		if err := a.client.DeleteContact(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Deleted contact #%d", id)))
		return nil
	},
}

var contactsImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV file",
	Long: `Import contacts from a CSV file with a header row.

The email column is required; first_name, last_name, and phone are
optional. Rows with invalid or duplicate addresses are skipped and
reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer file.Close()

		result, err := a.client.ImportContacts(cmd.Context(), filepath.Base(args[0]), file)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(result)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Imported %d contact(s), skipped %d", result.Imported, result.Skipped)))
		for _, rowErr := range result.Errors {
			fmt.Println(dimStyle.Render("  " + rowErr))
		}
		return nil
	},
}

func init() {
	contactsListCmd.Flags().IntVar(&contactsPage, "page", 1, "Page number")
	contactsListCmd.Flags().StringVar(&contactsSearch, "search", "", "Filter by email or name")

	for _, cmd := range []*cobra.Command{contactsCreateCmd, contactsUpdateCmd} {
		cmd.Flags().StringVar(&contactEmail, "email", "", "Contact email")
		cmd.Flags().StringVar(&contactFirstName, "first-name", "", "First name")
		cmd.Flags().StringVar(&contactLastName, "last-name", "", "Last name")
		cmd.Flags().StringVar(&contactPhone, "phone", "", "Phone number")
	}
	_ = contactsCreateCmd.MarkFlagRequired("email")

	contactsCmd.AddCommand(contactsListCmd, contactsCreateCmd, contactsUpdateCmd, contactsDeleteCmd, contactsImportCmd)
	rootCmd.AddCommand(contactsCmd)
}
