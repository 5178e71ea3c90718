package cli

import (
	"fmt"
	"os"

	"github.com/hadywafa/DatabaseHub/internal/lib/email"
	"github.com/spf13/cobra"
)

func NewEmailPreviewCommand(_ *RootOptions) *cobra.Command {
	var (
		template string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "email-preview",
		Short: "Render an email template with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := email.Template(template)

			data, ok := email.PreviewData[name]
			if !ok {
				return fmt.Errorf("no preview data for template %q", template)
			}

			body, err := email.RenderTemplate(name, data)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return os.WriteFile(out, []byte(body), 0o644)
		},
	}

	cmd.Flags().StringVar(&template, "template", string(email.TemplateVerificationReport), "template name")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")

	return cmd
}
