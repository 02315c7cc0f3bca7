package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/graphboard/client"
	"github.com/persistorai/graphboard/internal/editor"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3030"

var (
	apiClient *client.Client
	flagURL   string
	flagKey   string
	flagFmt   string
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("graphboard version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("graphboard version %s-dev", version)
}

type configFile struct {
	URL           string                   `yaml:"url"`
	APIKey        string                   `yaml:"api_key"`
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "graphboard",
		Short:   "Graphboard CLI for a shared directed-graph board",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			opts := []client.Option{client.WithRateLimitRetries(2)}
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Board server URL (env: GRAPHBOARD_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: GRAPHBOARD_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	addBoardCommands(rootCmd)
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newShellCmd())

	return rootCmd
}

func addBoardCommands(root *cobra.Command) {
	root.AddCommand(newShowCmd())
	root.AddCommand(newAddNodeCmd())
	root.AddCommand(newAddEdgeCmd())
	root.AddCommand(newMoveCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newDeleteEdgeCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newStatsCmd())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("GRAPHBOARD_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("GRAPHBOARD_API_KEY")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".graphboard", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	resolvedURL := cfg.URL
	resolvedKey := cfg.APIKey
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.APIKey != "" {
				resolvedKey = p.APIKey
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" && resolvedKey != "" {
		flagKey = resolvedKey
	}
}

func fatal(msg string, err error) {
	bad.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}

// printNotice writes the user-facing text for a failed board operation.
func printNotice(err error) {
	warn.Fprintln(os.Stderr, editor.Notice(err))
}

// newBoardController builds a controller over the remote board with a
// private scene and loads the current graph into it.
func newBoardController(ctx context.Context, opts ...editor.Option) (*editor.Controller, *editor.Scene) {
	scene := editor.NewScene()
	opts = append([]editor.Option{editor.WithNotifier(editor.NotifierFunc(printNotice))}, opts...)
	ctrl := editor.NewController(editor.NewRemoteStore(apiClient), scene, opts...)

	if err := ctrl.Refresh(ctx); err != nil {
		os.Exit(1)
	}

	return ctrl, scene
}
