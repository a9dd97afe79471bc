package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tri-bd/bdscan/internal/config"
	"github.com/tri-bd/bdscan/internal/websearch"
)

func newValidateCmd() *cobra.Command {
	var candidate websearch.Candidate

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-validate a title, author or ISBN against web search",
		Long: `Runs the web search provider chain for the given fields and prints how
well the results corroborate them. Useful to check search credentials and
the scoring on a known album without scanning anything.`,
		Example: `  bdscan validate --title "Astérix le Gaulois" --author "Goscinny"
  bdscan validate --isbn 978-2-01-210133-3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			a, err := newValidator(cfg).Validate(cmd.Context(), candidate)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			matches := strings.Join(websearch.Matches(a), ", ")
			if matches == "" {
				matches = "none"
			}
			fmt.Fprintf(w, "Query:       %s\n", a.Query)
			fmt.Fprintf(w, "Source:      %s\n", a.Source)
			fmt.Fprintf(w, "Matches:     %s\n", matches)
			fmt.Fprintf(w, "Confidence:  %d%% (%s)\n", a.Confidence, websearch.Band(a.Confidence))
			for i, s := range a.Suggestions {
				if i == 3 {
					break
				}
				fmt.Fprintf(w, "Suggestion:  %s\n", s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&candidate.Title, "title", "", "Album title")
	cmd.Flags().StringVar(&candidate.Author, "author", "", "Author name")
	cmd.Flags().StringVar(&candidate.ISBN, "isbn", "", "ISBN")

	return cmd
}
