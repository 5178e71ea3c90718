package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/hadywafa/DatabaseHub/internal/catalog"
	"github.com/hadywafa/DatabaseHub/internal/lib/utils"
	"github.com/hadywafa/DatabaseHub/internal/service"
	"github.com/spf13/cobra"
)

func NewProblemsCommand(_ *RootOptions) *cobra.Command {
	var (
		topic  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "problems",
		Short: "List catalog problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Default()
			if err != nil {
				return err
			}

			problems := service.NewCatalogService(c).List(topic)

			if asJSON {
				return utils.PrintJSON(cmd.OutOrStdout(), problems)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOPIC\tATTEMPTS\tTITLE")
			for _, p := range problems {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Topic, p.Attempts, p.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "only problems of this topic")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
