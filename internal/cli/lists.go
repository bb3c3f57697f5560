package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
)

var (
	listName        string
	listDescription string
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage mailing lists",
}

var listsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mailing lists in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		lists, err := a.client.GetLists(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(lists)
		}

		if len(lists) == 0 {
			fmt.Println(headerStyle.Render("No lists found"))
			return nil
		}
		rows := make([][]string, 0, len(lists))
		for _, l := range lists {
			rows = append(rows, []string{
				strconv.Itoa(l.ID), l.Name, truncate(l.Description, 40), strconv.Itoa(l.ContactsCount),
			})
		}
		renderTable([]string{"ID", "Name", "Description", "Contacts"}, rows)
		return nil
	},
}

var listsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a mailing list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		list, err := a.client.CreateList(cmd.Context(), mailer.ListInput{
			Name:        listName,
			Description: listDescription,
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(list)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Created list #%d (%s)", list.ID, list.Name)))
		return nil
	},
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mailing list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid list ID %q", args[0])
		}
		if err := a.client.DeleteList(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Deleted list #%d", id)))
		return nil
	},
}

var listsAddContactsCmd = &cobra.Command{
	Use:   "add-contacts <list-id> <contact-id>...",
	Short: "Add contacts to a mailing list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		listID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid list ID %q", args[0])
		}
		contactIDs := make([]int, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid contact ID %q", arg)
			}
			contactIDs = append(contactIDs, id)
		}

		if err := a.client.AddListContacts(cmd.Context(), listID, contactIDs); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Added %d contact(s) to list #%d", len(contactIDs), listID)))
		return nil
	},
}

func init() {
	listsCreateCmd.Flags().StringVar(&listName, "name", "", "List name")
	listsCreateCmd.Flags().StringVar(&listDescription, "description", "", "List description")
	_ = listsCreateCmd.MarkFlagRequired("name")

	listsCmd.AddCommand(listsListCmd, listsCreateCmd, listsDeleteCmd, listsAddContactsCmd)
	rootCmd.AddCommand(listsCmd)
}
