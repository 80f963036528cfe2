package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/texbib/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file.

Keys:
  preferred-source  Provider tried first: ads, inspire, s2, auto
  max-authors       Truncate author lists longer than N (0 disables)
  concurrency       Concurrent provider fetches
  library-path      Path to the local SQLite collection
  ads-api-key       NASA ADS API token (ADS_API_KEY overrides)
  s2-api-key        Semantic Scholar API key (S2_API_KEY overrides)`,
}

// ConfigResponse is the JSON output of config get with no arguments.
type ConfigResponse struct {
	PreferredSource string `json:"preferred_source,omitempty"`
	MaxAuthors      int    `json:"max_authors,omitempty"`
	Concurrency     int    `json:"concurrency,omitempty"`
	LibraryPath     string `json:"library_path,omitempty"`
	ADSAPIKeySet    bool   `json:"ads_api_key_set"`
	S2APIKeySet     bool   `json:"s2_api_key_set"`
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		if len(args) == 0 {
			if humanOutput {
				fmt.Printf("preferred-source: %s\n", cfg.Source())
				fmt.Printf("max-authors:      %d\n", cfg.MaxAuthors)
				fmt.Printf("concurrency:      %d\n", cfg.Workers())
				fmt.Printf("library-path:     %s\n", libraryPath(cfg))
				fmt.Printf("ads-api-key:      %s\n", setOrUnset(cfg.ADSKey()))
				fmt.Printf("s2-api-key:       %s\n", setOrUnset(cfg.S2Key()))
				return nil
			}
			return outputJSON(ConfigResponse{
				PreferredSource: cfg.PreferredSource,
				MaxAuthors:      cfg.MaxAuthors,
				Concurrency:     cfg.Concurrency,
				LibraryPath:     cfg.LibraryPath,
				ADSAPIKeySet:    cfg.ADSKey() != "",
				S2APIKeySet:     cfg.S2Key() != "",
			})
		}

		val, err := configValue(cfg, args[0])
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			fmt.Println(val)
			return nil
		}
		return outputJSON(map[string]string{args[0]: val})
	},
}

// UpdateResponse is the JSON output of config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		key, value := args[0], args[1]
		if err := applyConfigValue(cfg, key, value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if err := cfg.Save(); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			fmt.Printf("%s = %s\n", key, value)
			return nil
		}
		return outputJSON(UpdateResponse{Status: "ok", Key: key, Value: value})
	},
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "preferred-source":
		return cfg.Source(), nil
	case "max-authors":
		return strconv.Itoa(cfg.MaxAuthors), nil
	case "concurrency":
		return strconv.Itoa(cfg.Workers()), nil
	case "library-path":
		return libraryPath(cfg), nil
	case "ads-api-key":
		return setOrUnset(cfg.ADSKey()), nil
	case "s2-api-key":
		return setOrUnset(cfg.S2Key()), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "preferred-source":
		switch value {
		case "ads", "inspire", "s2", "auto":
			cfg.PreferredSource = value
		default:
			return fmt.Errorf("invalid source %q (valid: ads, inspire, s2, auto)", value)
		}
	case "max-authors":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("max-authors must be a non-negative integer")
		}
		cfg.MaxAuthors = n
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("concurrency must be a positive integer")
		}
		cfg.Concurrency = n
	case "library-path":
		cfg.LibraryPath = config.ExpandTilde(value)
	case "ads-api-key":
		cfg.ADSAPIKey = value
	case "s2-api-key":
		cfg.S2APIKey = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// setOrUnset reports key material presence without echoing the secret.
func setOrUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return "(set)"
}
