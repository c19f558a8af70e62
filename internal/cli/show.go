package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one prompt in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		p, err := app.repos.Prompts.GetByID(ctx, args[0])
		if err != nil {
			return err
		}

		cmd.Printf("ID:       %s\n", p.ID)
		cmd.Printf("Title:    %s\n", p.Title)
		if len(p.Tags) > 0 {
			cmd.Printf("Tags:     %s\n", strings.Join(p.Tags, ", "))
		}
		cmd.Printf("Favorite: %v\n", p.Favorite)
		cmd.Printf("Used:     %d time(s)\n", p.UsageCount)
		cmd.Printf("Updated:  %s\n", time.UnixMilli(p.UpdatedAt).UTC().Format(time.RFC3339))
		if p.Deleted {
			cmd.Println("Deleted:  yes")
		}
		cmd.Println()
		cmd.Println(p.Body)
		return nil
	},
}
