package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/musichub/internal/config"
)

func newConfigCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and edit the configuration file",
		// Config editing must work even when the current file is invalid.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	target := func(args []string) string {
		switch {
		case len(args) > 0:
			return args[0]
		case *cfgFile != "":
			return *cfgFile
		default:
			return config.LocalConfigPath
		}
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a commented default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := target(args)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set one key, keeping the file's comments",
		Long: `Set one key in the config file. The result is validated before it is
written, so an invalid value leaves the file untouched.

Examples:
  musichub config set api.base_url https://hub.example.com
  musichub config set notifications.default_duration 4s
  musichub config set theme.colors.toast.success "#00FF00"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := target(nil)
			if err := config.SetValue(path, args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
			return err
		},
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List the keys config set accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range config.KnownKeys() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), k); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, setCmd, keysCmd)
	return cmd
}
