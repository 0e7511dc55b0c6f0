package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/searchbar/internal/api"
	"github.com/oakwood-commons/searchbar/internal/config"
	"github.com/oakwood-commons/searchbar/internal/speech"
	"github.com/oakwood-commons/searchbar/internal/ui"
	"github.com/oakwood-commons/searchbar/pkg/logger"
	"github.com/oakwood-commons/searchbar/pkg/settings"
)

var (
	configFile  string
	instanceURL string
	debug       bool
	noColor     bool

	// runCfg is the merged configuration for the current invocation.
	runCfg *config.Config
)

// isTerminalFn reports whether both stdin and stdout are terminals.
// Tests replace it to force the plain output path.
var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUIFn starts the interactive front-end.
var runTUIFn = ui.Run

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [query...]",
	Short: "Search a Whoogle-compatible instance from the terminal",
	Long: `searchbar is a terminal client for a Whoogle-compatible search instance.

Run without arguments in a terminal to open the interactive search bar with
live suggestions. With a query and a non-terminal stdout it prints the
results instead.`,
	Example:           "\n  searchbar\n  searchbar golang generics\n  searchbar -u https://search.example.org 'weather berlin' | less\n  searchbar track 1Z999AA10123456784\n",
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if run, ok := settings.FromContext(cmd.Context()); ok && run.Interactive {
			return runInteractive(cmd, query)
		}
		if query == "" {
			return cmd.Help()
		}
		return runSearch(cmd, searchOptions{Query: query, Format: formatText})
	},
}

// setupRun loads configuration, initializes the logger and stores the
// per-run settings in the command context.
func setupRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return err
	}
	if instanceURL != "" {
		cfg.Instance.URL = instanceURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if noColor {
		cfg.UI.NoColor = true
	}

	run := settings.NewCliParams()
	run.ConfigFile = configFile
	run.InstanceURL = instanceURL
	run.NoColor = cfg.UI.NoColor
	run.Interactive = cmd == rootCmd && isTerminalFn()

	// Map the debug flag to zap.DebugLevel (-1); otherwise use log.level.
	run.MinLogLevel = cfg.Log.LevelValue()
	if debug {
		run.MinLogLevel = -1
	}
	opts := logger.Options{Level: run.MinLogLevel}
	if run.Interactive {
		opts.Path = cfg.Log.File
		if opts.Path == "" {
			opts.Path = logger.DefaultLogPath()
		}
	}
	lgr, err := logger.Setup(opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %v; logging to stderr\n", err)
	}
	lgr = logger.WithValues(lgr,
		logger.RootCommandKey, settings.CliBinaryName,
		logger.SubCommandKey, cmd.Name(),
		logger.InstanceKey, cfg.Instance.URL)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	runCfg = cfg
	return nil
}

func runInteractive(cmd *cobra.Command, query string) error {
	matcher, err := newMatcher(runCfg.Suggest.Filter)
	if err != nil {
		return err
	}
	opts := ui.Options{
		Instance:     newClient(runCfg),
		Config:       *runCfg,
		Matcher:      matcher,
		InitialQuery: query,
	}
	if len(runCfg.Speech.Command) > 0 {
		opts.Recognizer = speech.ExecRecognizer{Command: runCfg.Speech.Command}
	}
	logger.FromContext(cmd.Context()).V(1).Info("starting interactive session", "query", query)
	return runTUIFn(cmd.Context(), opts)
}

// newClient builds an API client from the instance section of cfg.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Instance.URL, api.Options{
		UserAgent: cfg.Instance.UserAgent,
		Timeout:   cfg.Instance.Timeout(),
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print searchbar version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/searchbar/config.yaml)")
	pf.StringVarP(&instanceURL, "instance", "u", "", "instance URL (overrides instance.url)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.BoolVar(&noColor, "no-color", false, "disable colors in the interactive UI")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
