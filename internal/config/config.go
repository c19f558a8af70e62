// Package config loads and persists PromptKeeper settings: the Notion
// credential and database id, the property-name mapping, and local paths and
// tuning knobs. Settings live in <config-dir>/config.yaml; any key can be
// overridden through PROMPTKEEPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/promptkeeper/promptkeeper/internal/cryptox"
	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDatabaseID     = "database_id"
	KeyToken          = "token"
	KeyTokenProtected = "token_protected"
	KeyTokenSalt      = "token_salt"
	KeyDBPath         = "db_path"
	KeyHTTPTimeout    = "http_timeout"
	KeyPageInterval   = "page_interval"

	KeyPropertyTitle    = "property_map.title"
	KeyPropertyBody     = "property_map.body"
	KeyPropertyTags     = "property_map.tags"
	KeyPropertyFavorite = "property_map.favorite"
)

const (
	configName = "config"
	configFile = "config.yaml"
	envPrefix  = "PROMPTKEEPER"
)

// Config is the typed view of the loaded settings.
//
// Token is stored as-is when TokenProtected is false, otherwise it is the
// sealed value produced by cryptox.SealToken and must be opened with the
// user's passphrase before use. Either way it must never be logged.
type Config struct {
	DatabaseID     string
	Token          string
	TokenProtected bool
	TokenSalt      string
	DBPath         string
	HTTPTimeout    time.Duration
	PageInterval   time.Duration
	PropertyMap    models.PropertyMap
}

// DefaultDir returns the per-user config directory, honoring the
// PROMPTKEEPER_CONFIG_DIR override.
func DefaultDir() (string, error) {
	if dir := os.Getenv(envPrefix + "_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "promptkeeper"), nil
}

// Load reads config.yaml from dir (a missing file is fine, defaults apply)
// and returns the viper handle used for later writes.
func Load(dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault(KeyDBPath, filepath.Join(dir, "prompts.db"))
	v.SetDefault(KeyHTTPTimeout, "15s")
	v.SetDefault(KeyPageInterval, "500ms")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// FromViper converts the raw settings into a typed Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		DatabaseID:     v.GetString(KeyDatabaseID),
		Token:          v.GetString(KeyToken),
		TokenProtected: v.GetBool(KeyTokenProtected),
		TokenSalt:      v.GetString(KeyTokenSalt),
		DBPath:         v.GetString(KeyDBPath),
		HTTPTimeout:    v.GetDuration(KeyHTTPTimeout),
		PageInterval:   v.GetDuration(KeyPageInterval),
		PropertyMap: models.PropertyMap{
			Title:    v.GetString(KeyPropertyTitle),
			Body:     v.GetString(KeyPropertyBody),
			Tags:     v.GetString(KeyPropertyTags),
			Favorite: v.GetString(KeyPropertyFavorite),
		},
	}
}

// Save writes the current settings to <dir>/config.yaml, creating dir when
// needed. The file is user-only: it can hold the integration token.
func Save(v *viper.Viper, dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	path := filepath.Join(dir, configFile)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// ResolveToken returns the usable integration token. For a protected token
// the passphrase is required; for a plain one it is ignored.
func (c *Config) ResolveToken(passphrase []byte) (string, error) {
	if !c.TokenProtected {
		return c.Token, nil
	}
	return cryptox.OpenToken(c.Token, c.TokenSalt, passphrase)
}
