package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
	tmpl "github.com/ignite/mailerctl/internal/template"
)

var (
	templateName string
	templateFile string

	previewFile      string
	previewEmail     string
	previewFirstName string
	previewLastName  string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage email templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates visible in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		templates, err := a.client.GetTemplates(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(templates)
		}

		if len(templates) == 0 {
			fmt.Println(headerStyle.Render("No templates found"))
			return nil
		}
		rows := make([][]string, 0, len(templates))
		for _, t := range templates {
			kind := "workspace"
			if t.WorkspaceID == 0 {
				kind = dimStyle.Render("system")
			}
			rows = append(rows, []string{strconv.Itoa(t.ID), truncate(t.Name, 40), kind})
		}
		renderTable([]string{"ID", "Name", "Type"}, rows)
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a template's HTML body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid template ID %q", args[0])
		}

		template, err := a.client.GetTemplate(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(template)
		}
		fmt.Println(titleStyle.Render(template.Name))
		fmt.Println(template.HTMLBody)
		return nil
	},
}

var templatesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template from an HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		body, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", templateFile, err)
		}
		template, err := a.client.CreateTemplate(cmd.Context(), mailer.TemplateInput{
			Name:     templateName,
			HTMLBody: string(body),
		})
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(template)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Created template #%d (%s)", template.ID, template.Name)))
		return nil
	},
}

var templatesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a template's name and body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid template ID %q", args[0])
		}

		body, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", templateFile, err)
		}
		template, err := a.client.UpdateTemplate(cmd.Context(), id, mailer.TemplateInput{
			Name:     templateName,
			HTMLBody: string(body),
		})
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Updated template #%d", template.ID)))
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid template ID %q", args[0])
		}
		if err := a.client.DeleteTemplate(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Deleted template #%d", id)))
		return nil
	},
}

// templatesPreviewCmd renders a template locally, no server round trip.
// The body comes from --file or from the server by ID; the variables come
// from the preview flags.
var templatesPreviewCmd = &cobra.Command{
	Use:   "preview [id]",
	Short: "Render a template locally with sample data",
	Long: `Render a template with the local Liquid engine and sample contact data.

Reads the body from --file when given, otherwise fetches the template by
ID. Variables without a value are reported as warnings so a typo shows up
before a send does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body string
		switch {
		case previewFile != "":
			data, err := os.ReadFile(previewFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", previewFile, err)
			}
			body = string(data)
		case len(args) == 1:
			a, err := authedApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid template ID %q", args[0])
			}
			template, err := a.client.GetTemplate(cmd.Context(), id)
			if err != nil {
				return err
			}
			body = template.HTMLBody
		default:
			return fmt.Errorf("provide a template ID or --file")
		}

		engine := tmpl.NewEngine()
		data := tmpl.ContactData(mailer.Contact{
			Email:     previewEmail,
			FirstName: previewFirstName,
			LastName:  previewLastName,
		})
		html, warnings, err := engine.RenderStrict(body, data)
		if err != nil {
			return fmt.Errorf("template error: %w", err)
		}

		for _, warning := range warnings {
			fmt.Fprintln(os.Stderr, warnStyle.Render("warning: ")+warning.Message)
		}
		fmt.Println(html)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{templatesCreateCmd, templatesUpdateCmd} {
		cmd.Flags().StringVar(&templateName, "name", "", "Template name")
		cmd.Flags().StringVar(&templateFile, "file", "", "Path to the HTML body")
		_ = cmd.MarkFlagRequired("name")
		_ = cmd.MarkFlagRequired("file")
	}

	templatesPreviewCmd.Flags().StringVar(&previewFile, "file", "", "Render a local file instead of a server template")
	templatesPreviewCmd.Flags().StringVar(&previewEmail, "email", "jane@example.com", "Sample contact email")
	templatesPreviewCmd.Flags().StringVar(&previewFirstName, "first-name", "Jane", "Sample first name")
	templatesPreviewCmd.Flags().StringVar(&previewLastName, "last-name", "Doe", "Sample last name")

	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesCreateCmd,
		templatesUpdateCmd, templatesDeleteCmd, templatesPreviewCmd)
	rootCmd.AddCommand(templatesCmd)
}
