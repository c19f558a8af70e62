package cli

import (
	"fmt"

	"github.com/promptkeeper/promptkeeper/internal/config"
	"github.com/promptkeeper/promptkeeper/internal/cryptox"
	"github.com/promptkeeper/promptkeeper/internal/shared"
	"github.com/spf13/cobra"
)

var flagProtectToken bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store the Notion integration token",
	Long: `Set-token reads the integration token from the terminal (without echo)
and stores it in the config file. With --protect the token is encrypted
with a passphrase first; sync will then ask for the passphrase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openConfig()
		if err != nil {
			return err
		}

		token, err := getSecret(cmd.OutOrStdout(), "Integration token")
		if err != nil {
			return err
		}
		defer shared.WipeByteArray(token)

		if flagProtectToken {
			passphrase, err := getSecret(cmd.OutOrStdout(), "Passphrase")
			if err != nil {
				return err
			}
			defer shared.WipeByteArray(passphrase)

			sealed, salt, err := cryptox.SealToken(string(token), passphrase)
			if err != nil {
				return fmt.Errorf("sealing token: %w", err)
			}
			app.v.Set(config.KeyToken, sealed)
			app.v.Set(config.KeyTokenSalt, salt)
			app.v.Set(config.KeyTokenProtected, true)
		} else {
			app.v.Set(config.KeyToken, string(token))
			app.v.Set(config.KeyTokenSalt, "")
			app.v.Set(config.KeyTokenProtected, false)
		}

		return config.Save(app.v, app.dir)
	},
}

var configSetDatabaseCmd = &cobra.Command{
	Use:   "set-database <id>",
	Short: "Set the Notion database id to sync from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openConfig()
		if err != nil {
			return err
		}
		app.v.Set(config.KeyDatabaseID, args[0])
		return config.Save(app.v, app.dir)
	},
}

var configSetMapCmd = &cobra.Command{
	Use:   "set-map <field> <property>",
	Short: "Map a prompt field to a Notion property name",
	Long: `Set-map overrides which Notion property a prompt field is read from.
Field is one of: title, body, tags, favorite.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openConfig()
		if err != nil {
			return err
		}

		var key string
		switch args[0] {
		case "title":
			key = config.KeyPropertyTitle
		case "body":
			key = config.KeyPropertyBody
		case "tags":
			key = config.KeyPropertyTags
		case "favorite":
			key = config.KeyPropertyFavorite
		default:
			return fmt.Errorf("unknown field %q (want title, body, tags or favorite)", args[0])
		}

		app.v.Set(key, args[1])
		return config.Save(app.v, app.dir)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openConfig()
		if err != nil {
			return err
		}
		cfg := app.cfg

		token := "(not set)"
		if cfg.Token != "" {
			token = "(set)"
			if cfg.TokenProtected {
				token = "(set, passphrase protected)"
			}
		}

		cmd.Printf("Config dir:    %s\n", app.dir)
		cmd.Printf("Database id:   %s\n", cfg.DatabaseID)
		cmd.Printf("Token:         %s\n", token)
		cmd.Printf("Local store:   %s\n", cfg.DBPath)
		cmd.Printf("HTTP timeout:  %s\n", cfg.HTTPTimeout)
		cmd.Printf("Page interval: %s\n", cfg.PageInterval)
		cmd.Printf("Property map:  title=%s body=%s tags=%s favorite=%s\n",
			cfg.PropertyMap.TitleProperty(), cfg.PropertyMap.BodyProperty(),
			cfg.PropertyMap.TagsProperty(), cfg.PropertyMap.FavoriteProperty())
		return nil
	},
}

func init() {
	configSetTokenCmd.Flags().BoolVar(&flagProtectToken, "protect", false, "encrypt the token with a passphrase")

	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configSetDatabaseCmd)
	configCmd.AddCommand(configSetMapCmd)
	configCmd.AddCommand(configShowCmd)
}
