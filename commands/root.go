package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-kicad-wakatime/internal/application/tracker"
	"github.com/penwyp/go-kicad-wakatime/internal/config"
	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var (
	// Config sources
	configPath   string
	settingsPath string

	// Reporting
	dryRun bool

	// Engine timing (zero = config/default)
	pollInterval      time.Duration
	heartbeatInterval time.Duration
	idleThreshold     time.Duration

	// Logging
	logLevel  string
	quiet     bool
	noFileLog bool

	rootCmd = &cobra.Command{
		Use:     "go-kicad-wakatime",
		Version: constants.Version,
		Short:   "WakaTime activity tracking for KiCad",
		Long: `go-kicad-wakatime watches the foreground window and reports KiCad design
activity to WakaTime through wakatime-cli, no KiCad plugin required.

It polls the active window title, recognizes the KiCad editors, resolves
the open document to a project via KiCad's own recently-opened history,
and sends throttled heartbeats. Credentials come from ~/.wakatime.cfg.

Examples:
  go-kicad-wakatime                          # Track with default settings
  go-kicad-wakatime --dry-run                # Log heartbeats without sending
  go-kicad-wakatime --log-level debug        # Show every tick decision
  go-kicad-wakatime --quiet --no-file-log    # Errors on stderr, nothing on disk
  go-kicad-wakatime check                    # Probe the environment and exit`,
		RunE: runTracker,
	}
)

const defaultConfigFile = "~/.go-kicad-wakatime/config.yaml"

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile,
		"Tool config file path")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"KiCad kicad_common.json path (default: newest per-version file)")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Log heartbeats instead of invoking wakatime-cli")
	rootCmd.Flags().DurationVar(&pollInterval, "interval", 0,
		"Window poll interval (default 5s)")
	rootCmd.Flags().DurationVar(&heartbeatInterval, "heartbeat-interval", 0,
		"Minimum spacing between heartbeats for unchanged work (default 2m)")
	rootCmd.Flags().DurationVar(&idleThreshold, "idle-threshold", 0,
		"Inactivity span after which ticks stop reporting (default 5m)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Console output limited to errors")
	rootCmd.PersistentFlags().BoolVar(&noFileLog, "no-file-log", false,
		"Disable the log file")
}

func runTracker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	t, err := tracker.New(cfg)
	if err != nil {
		return err
	}

	// Ctrl-C and service stop both end the loop cleanly.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return t.Run(ctx)
}

// loadConfig assembles the runtime configuration, later wins: defaults,
// the tool's yaml file, shared ~/.wakatime.cfg credentials, flags.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}

	if err := cfg.LoadFile(expandPath(configPath)); err != nil {
		return nil, err
	}
	if err := cfg.ApplyWakatimeCfg(expandPath("~/.wakatime.cfg")); err != nil {
		return nil, err
	}

	if settingsPath != "" {
		cfg.SettingsPath = expandPath(settingsPath)
	}
	if dryRun {
		cfg.DryRun = true
	}
	if pollInterval > 0 {
		cfg.PollInterval = pollInterval
	}
	if heartbeatInterval > 0 {
		cfg.HeartbeatInterval = heartbeatInterval
	}
	if idleThreshold > 0 {
		cfg.IdleThreshold = idleThreshold
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Quiet = quiet
	cfg.NoFileLog = noFileLog

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogging(cfg *config.Config) error {
	logFile := ""
	if !cfg.NoFileLog {
		logFile = expandPath(cfg.LogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return err
		}
	}
	return util.InitLogger(cfg.LogLevel, logFile, cfg.Quiet)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
