package cli

import (
	"github.com/promptkeeper/promptkeeper/internal/notion"
	"github.com/promptkeeper/promptkeeper/internal/shared"
	"github.com/promptkeeper/promptkeeper/internal/syncer"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull prompts from the configured Notion database",
	Long: `Sync pulls pages from the configured Notion database and merges them into
the local store with a last-write-wins policy. Only records edited since the
last successful sync are requested; the first run pulls everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		token := app.cfg.Token
		if app.cfg.TokenProtected {
			passphrase, err := getSecret(cmd.ErrOrStderr(), "Passphrase")
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(passphrase)

			token, err = app.cfg.ResolveToken(passphrase)
			if err != nil {
				return err
			}
		}

		client := notion.NewClient(notion.WithTimeout(app.cfg.HTTPTimeout))
		merger := syncer.NewMerger(app.repos.Prompts, app.log)
		runner := syncer.NewRunner(client, merger, app.repos.Metadata,
			syncer.WithLogger(app.log),
			syncer.WithPageInterval(app.cfg.PageInterval))

		creds := syncer.Credentials{DatabaseID: app.cfg.DatabaseID, Token: token}
		summary, err := runner.Run(ctx, creds, app.cfg.PropertyMap)
		if err != nil {
			return err
		}

		cmd.Printf("Merged %d prompt(s)\n", summary.Merged)
		return nil
	},
}
