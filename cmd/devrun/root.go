package devrun

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fastcmsdomain/szybkafucha/internal/config"
	"github.com/fastcmsdomain/szybkafucha/internal/device"
	"github.com/fastcmsdomain/szybkafucha/internal/flutter"
	"github.com/fastcmsdomain/szybkafucha/internal/preflight"
	"github.com/fastcmsdomain/szybkafucha/internal/runner"
	"github.com/fastcmsdomain/szybkafucha/internal/ui"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// Seams for tests
var (
	newExecutor = func() flutter.Executor { return flutter.ExecExecutor{} }
	newChecker  = preflight.NewChecker
)

type rootOptions struct {
	configPath  string
	verbose     bool
	serverURL   string
	deviceID    string
	flutterBin  string
	projectDir  string
	noClean     bool
	list        bool
	copyCommand bool
}

// NewRootCmd builds the devrun command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "devrun",
		Short: "Clean, fetch and run the Szybka Fucha app on a physical device",
		Long: `devrun runs the Szybka Fucha Flutter app on a connected phone.

It picks the first physical device, cleans the Flutter build and Xcode
DerivedData, fetches dependencies, and launches the app with the backend URL
passed as --dart-define=DEV_SERVER_URL=<url>.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			logger.Debug("resolved config",
				"server", cfg.ServerURL,
				"device", cfg.DeviceID,
				"project", cfg.ProjectDir,
				"flutter", cfg.FlutterBin,
			)

			return runner.New(cfg, newTool(cmd, cfg), ui.NewPrinter(cmd.OutOrStdout()), logger).Run()
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: "+config.DefaultFileName+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.serverURL, "server-url", config.DefaultServerURL, "backend URL passed to the app")
	pf.StringVar(&opts.flutterBin, "flutter", config.DefaultFlutterBin, "flutter binary")
	pf.StringVar(&opts.projectDir, "project-dir", "", "Flutter project directory (default: . or ./mobile)")

	f := rootCmd.Flags()
	f.StringVar(&opts.deviceID, "device", "", "device ID (default: first physical device)")
	f.BoolVar(&opts.noClean, "no-clean", false, "skip flutter clean and DerivedData purge (faster restart)")
	f.BoolVar(&opts.list, "list", false, "list available devices and exit")
	f.BoolVar(&opts.copyCommand, "copy-command", false, "copy the flutter run command to the clipboard")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDevicesCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "devrun %s\n", appVersion)
			fmt.Fprintf(out, "  commit: %s\n", appCommit)
			fmt.Fprintf(out, "  built:  %s\n", appDate)
		},
	}
}

func newDevicesCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List connected devices parsed from flutter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			tool := newTool(cmd, cfg)

			p := ui.NewPrinter(cmd.OutOrStdout())

			list, err := tool.Devices()
			if err != nil {
				return &runner.ExitError{Code: runner.ExitCannotExecute, Message: err.Error()}
			}
			if !all {
				list = device.Physical(list)
			}
			if len(list) == 0 {
				p.Warn("No devices found.")
				return nil
			}
			p.Devices(list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include emulators and simulators")
	return cmd
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, project layout and dev server reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			results := newChecker().Run(cfg)

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Banner("devrun doctor")
			for _, c := range results.Checks {
				p.Mark(checkTone(c.Status), c.Status.Icon(), "%-18s %s", c.Name, c.Message)
			}
			p.Rule()
			p.Info("%s", results.Summary())

			if results.HasErrors {
				return &runner.ExitError{Code: 1, Message: "doctor found problems: " + results.Summary()}
			}
			return nil
		},
	}
}

func checkTone(s preflight.Status) ui.Tone {
	switch s {
	case preflight.StatusOK:
		return ui.ToneOK
	case preflight.StatusWarning:
		return ui.ToneWarn
	default:
		return ui.ToneFail
	}
}

// Execute runs the root command
func Execute(version, commit, date string) error {
	appVersion = version
	appCommit = commit
	appDate = date
	return NewRootCmd().Execute()
}

// resolveConfig builds the immutable run configuration: defaults, then the
// config file, then any flag the user actually set.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	path, explicit := opts.configPath, opts.configPath != ""
	if !explicit {
		path = config.DefaultFileName
	}
	file, err := config.LoadFile(path, explicit)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	o := config.Overrides{
		ListOnly:    opts.list,
		CopyCommand: opts.copyCommand,
		Verbose:     opts.verbose,
	}
	if flags.Changed("server-url") {
		o.ServerURL = &opts.serverURL
	}
	if flags.Changed("device") {
		o.DeviceID = &opts.deviceID
	}
	if flags.Changed("flutter") {
		o.FlutterBin = &opts.flutterBin
	}
	if flags.Changed("project-dir") {
		o.ProjectDir = &opts.projectDir
	}
	if flags.Changed("no-clean") {
		o.NoClean = &opts.noClean
	}

	return config.Resolve(config.Defaults(), file, o), nil
}

func newTool(cmd *cobra.Command, cfg config.Config) *flutter.Tool {
	tool := flutter.New(cfg.FlutterBin, cfg.ProjectDir)
	tool.Exec = newExecutor()
	tool.Stdout = cmd.OutOrStdout()
	tool.Stderr = cmd.ErrOrStderr()
	return tool
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "devrun",
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
