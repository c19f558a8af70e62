package cli

import (
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagListLimit int
	flagListAll   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts, favorites first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		prompts, err := app.repos.Prompts.List(ctx, models.ListOptions{
			Limit:          flagListLimit,
			IncludeDeleted: flagListAll,
		})
		if err != nil {
			return err
		}

		printPromptTable(cmd, prompts)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 0, "max rows (default 50)")
	listCmd.Flags().BoolVarP(&flagListAll, "all", "a", false, "include soft-deleted prompts")
}

func printPromptTable(cmd *cobra.Command, prompts []models.Prompt) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()

	row := func(cols ...string) {
		_, _ = w.Write([]byte(strings.Join(cols, "\t") + "\n"))
	}

	row("ID", "TITLE", "TAGS", "FAV", "USED")
	for _, p := range prompts {
		fav := ""
		if p.Favorite {
			fav = "*"
		}
		title := p.Title
		if p.Deleted {
			title += " (deleted)"
		}
		row(p.ID, title, strings.Join(p.Tags, ","), fav, strconv.FormatInt(p.UsageCount, 10))
	}
}
