package cli

import "github.com/spf13/cobra"

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Soft-delete a prompt",
	Long: `Rm marks a prompt as deleted. It disappears from listings and search but
stays retrievable by id with 'show'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.repos.Prompts.SoftDelete(ctx, args[0])
	},
}
