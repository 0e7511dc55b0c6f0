package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/searchbar/internal/config"
	"github.com/oakwood-commons/searchbar/internal/prefs"
	"github.com/oakwood-commons/searchbar/pkg/logger"
)

var (
	configOutput string
	setPairs     []string
	forceInit    bool
)

// promptNameFn asks for a config name on the terminal.
var promptNameFn = func(label string) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: prefs.ValidateName,
	}
	return p.Run()
}

// configCmd groups local and remote configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage searchbar and instance configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when invoked without a subcommand
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged client configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeOutput(cmd.OutOrStdout(), configOutput, runCfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.ResolvePath(configFile))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ResolvePath(configFile)
		if path == "" {
			return errors.New("cannot determine config file location; pass --config-file")
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := runCfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Show the instance's current search preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		form, err := prefs.NewBridge(newClient(runCfg)).Load(cmd.Context())
		if err != nil {
			return bridgeError(err)
		}
		return writePrefs(cmd.OutOrStdout(), configOutput, form)
	},
}

var configLoadCmd = &cobra.Command{
	Use:   "load [name]",
	Short: "Switch the instance to a saved named config",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resolveName(args, prefs.ActionLoad)
		if err != nil {
			return err
		}
		form, err := prefs.NewBridge(newClient(runCfg)).LoadNamed(cmd.Context(), name)
		if err != nil {
			return bridgeError(err)
		}
		logger.FromContext(cmd.Context()).V(1).Info("loaded named config", "name", name)
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config %s\n", name)
		return writePrefs(cmd.OutOrStdout(), configOutput, form)
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the instance's preferences under a name",
	Long: `Save the instance's current preferences under a name. Use --set to change
options before saving, for example --set dark=true --set near=Berlin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resolveName(args, prefs.ActionSave)
		if err != nil {
			return err
		}
		bridge := prefs.NewBridge(newClient(runCfg))
		form, err := bridge.Load(cmd.Context())
		if err != nil {
			return bridgeError(err)
		}
		if err := applySetPairs(&form, setPairs); err != nil {
			return err
		}
		if err := bridge.Save(cmd.Context(), name, form); err != nil {
			return bridgeError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved config %s\n", name)
		return nil
	},
}

var configApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Change the instance's active preferences",
	Example: "\n  searchbar config apply --set dark=true --set safe=on\n" +
		"  searchbar config apply --set near=Berlin -o json\n",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(setPairs) == 0 {
			return errors.New("nothing to apply; pass at least one --set option=value")
		}
		bridge := prefs.NewBridge(newClient(runCfg))
		form, err := bridge.Load(cmd.Context())
		if err != nil {
			return bridgeError(err)
		}
		if err := applySetPairs(&form, setPairs); err != nil {
			return err
		}
		form, err = bridge.Apply(cmd.Context(), form)
		if err != nil {
			return bridgeError(err)
		}
		return writePrefs(cmd.OutOrStdout(), configOutput, form)
	},
}

// resolveName returns the name argument, prompting for it on a terminal.
func resolveName(args []string, action prefs.Action) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if !isTerminalFn() {
		return "", errors.New(prefs.AlertText(&prefs.OpError{Action: action, Err: prefs.ErrEmptyName}))
	}
	name, err := promptNameFn("Config name to " + string(action))
	if err != nil {
		return "", fmt.Errorf("reading config name: %w", err)
	}
	return strings.TrimSpace(name), nil
}

// applySetPairs applies option=value pairs to form.
func applySetPairs(form *prefs.Form, pairs []string) error {
	for _, pair := range pairs {
		option, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want option=value", pair)
		}
		if err := form.Set(strings.TrimSpace(option), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid --set %q: %w", pair, err)
		}
	}
	return nil
}

// bridgeError turns name validation failures into the user-facing alert
// text and leaves transport errors wrapped.
func bridgeError(err error) error {
	if errors.Is(err, prefs.ErrEmptyName) || errors.Is(err, prefs.ErrInvalidName) {
		return errors.New(prefs.AlertText(err))
	}
	return err
}

func init() {
	configCmd.PersistentFlags().StringVarP(&configOutput, "output", "o", formatYAML, "output format: yaml|json|toml, or table for instance preferences")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	configSaveCmd.Flags().StringArrayVar(&setPairs, "set", nil, "option=value to change before saving (repeatable)")
	configApplyCmd.Flags().StringArrayVar(&setPairs, "set", nil, "option=value to change (repeatable)")

	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd,
		configRemoteCmd, configLoadCmd, configSaveCmd, configApplyCmd)
	rootCmd.AddCommand(configCmd)
}
