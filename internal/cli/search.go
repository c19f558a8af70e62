package cli

import "github.com/spf13/cobra"

var flagSearchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search prompts by title, body or tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		prompts, err := app.repos.Prompts.Search(ctx, args[0], flagSearchLimit)
		if err != nil {
			return err
		}

		printPromptTable(cmd, prompts)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 0, "max rows (default 50)")
}
