package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagAddBody     string
	flagAddTags     []string
	flagAddFavorite bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a prompt to the local store",
	Long: `Add stores a new prompt locally. The body is taken from --body, or read
from stdin when the flag is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		body := flagAddBody
		if body == "" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading body from stdin: %w", err)
			}
			body = strings.TrimSpace(string(raw))
		}

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		p := models.NewPrompt(args[0], body, flagAddTags, flagAddFavorite)
		if err := app.repos.Prompts.Create(ctx, p); err != nil {
			return err
		}

		cmd.Println(p.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&flagAddBody, "body", "b", "", "prompt body (default: read from stdin)")
	addCmd.Flags().StringSliceVarP(&flagAddTags, "tag", "t", nil, "tag, repeatable")
	addCmd.Flags().BoolVarP(&flagAddFavorite, "favorite", "f", false, "mark as favorite")
}
