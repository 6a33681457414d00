package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/lineblame/pkg/config"
	"github.com/DrSkyle/lineblame/pkg/engine"
	"github.com/DrSkyle/lineblame/pkg/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// sessionOptions are appended to every session the commands build.
var sessionOptions []engine.Option

var rootCmd = &cobra.Command{
	Use:   "lineblame",
	Short: "Git blame for the lines you select",
	Long: `lineblame - per-line commit attribution

Select lines, see who changed them, when, and why.`,
	Version:       version.Current,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.lineblame.yaml)")
	flags.Bool("enabled", d.Enabled, "Show blame when the viewer opens")
	flags.String("git", d.GitBinary, "Git executable")
	flags.Int("cache-size", d.CacheSize, "Number of files whose blame is kept in memory")
	flags.Duration("timeout", d.Timeout, "Limit for each git invocation (0 = none)")
	flags.String("timezone", d.Timezone, "Zone for author dates: UTC, Local or an IANA name")
	flags.String("exclude", d.Exclude, `CEL expression hiding matching commits, e.g. 'author == "dependabot[bot]"'`)
	flags.Bool("watch", d.Watch, "Refresh blame when the file changes on disk")
	flags.String("log-file", d.LogFile, "Write logs to this file")
	flags.Bool("json-logs", d.JSONLogs, "Log as JSON")
	flags.BoolP("verbose", "v", d.Verbose, "Debug logging")
	flags.String("otel-endpoint", d.OTelEndpoint, "OTLP HTTP endpoint for traces")
	flags.Bool("no-telemetry", d.NoTelemetry, "Disable OpenTelemetry")

	bind := map[string]string{
		config.KeyEnabled:      "enabled",
		config.KeyGitBinary:    "git",
		config.KeyCacheSize:    "cache-size",
		config.KeyTimeout:      "timeout",
		config.KeyTimezone:     "timezone",
		config.KeyExclude:      "exclude",
		config.KeyWatch:        "watch",
		config.KeyLogFile:      "log-file",
		config.KeyJSONLogs:     "json-logs",
		config.KeyVerbose:      "verbose",
		config.KeyOTelEndpoint: "otel-endpoint",
		config.KeyNoTelemetry:  "no-telemetry",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".lineblame.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "[WARN] Cannot read config %s: %v\n", cfgFile, err)
	}
}

// newSession loads the configuration and builds a session. Logs go to
// fallback unless a log file is configured. The returned func closes both.
func newSession(ctx context.Context, fallback io.Writer, override func(*config.Config)) (*engine.Session, func(), error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(&cfg)
	}

	out := fallback
	var logFile *os.File
	if cfg.LogFile != "" {
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = logFile
	}

	opts := append([]engine.Option{
		engine.WithConfig(cfg),
		engine.WithLogger(engine.NewLogger(out, cfg.JSONLogs, cfg.Verbose)),
	}, sessionOptions...)

	s, err := engine.New(ctx, opts...)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, nil, err
	}

	closeFn := func() {
		if err := s.Close(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
			s.Logger.Warn("Shutdown incomplete", "error", err)
		}
		if logFile != nil {
			logFile.Close()
		}
	}
	return s, closeFn, nil
}

func renderHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("LINEBLAME %s", version.Current)))
	fmt.Fprintln(out, "Git blame for the lines you select.")

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("EXAMPLES"))
	fmt.Fprintln(out, "  lineblame view main.go                   # Interactive viewer")
	fmt.Fprintln(out, "  lineblame lines main.go -l 10-14 -l 30   # Print blame for lines")
	fmt.Fprintln(out, "  lineblame lines main.go --format json    # Whole file as JSON")
	fmt.Fprintln(out)

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(output))
	})
	fmt.Fprintln(out)
}
