package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/config"
)

// ConfigCmd creates the config command with subcommands.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/eafprep/config.
Settings can also be overridden via environment variables.

Supported settings:
  output-dir          Default output root for clips (env: EAFPREP_OUTPUT_DIR)
  wav-root            Primary wav search root (env: EAFPREP_WAV_ROOT)
  wav-fallback-root   Fallback wav search root (env: EAFPREP_WAV_FALLBACK_ROOT)`,
		Example: `  eafprep config set wav-root /corpora/wav
  eafprep config get wav-root
  eafprep config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Example: `  eafprep config set output-dir ~/corpora/clips`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !config.IsKnownKey(key) {
				return fmt.Errorf("%q: %w", key, ErrUnknownConfigKey)
			}
			if err := config.Save(key, value); err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "%s = %s\n", key, value)
			return nil
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Example: `  eafprep config get wav-root`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsKnownKey(key) {
				return fmt.Errorf("%q: %w", key, ErrUnknownConfigKey)
			}
			value, err := config.Get(key)
			if err != nil {
				return err
			}
			if value != "" {
				fmt.Fprintln(env.Stdout, value)
			}
			return nil
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Example: `  eafprep config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.List()
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Fprintf(env.Stdout, "%s = %s\n", k, values[k])
			}
			return nil
		},
	}
}
