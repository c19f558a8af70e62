package cli

import "github.com/spf13/cobra"

var useCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Print a prompt's body and record the usage",
	Long: `Use prints the prompt body to stdout (handy for piping into a clipboard
tool) and increments its usage counter.`,
	Args: cobra.ExactArgs(1),
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
		if err := app.repos.Prompts.TouchUsage(ctx, p.ID); err != nil {
			return err
		}

		cmd.Print(p.Body)
		return nil
	},
}
