// Command leaflet is a terminal client for the Leaflet to-do API. It works
// offline against a local cache and pushes changes once the server is back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"leaflet/config"
	"leaflet/internal/syncclient"
	"leaflet/pkg/log"
)

var (
	configPath string
	serverURL  string
	cachePath  string
	verbose    bool

	syncer            *syncclient.Syncer
	reconcileInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "leaflet",
	Short: "Leaflet to-do list client",
	Long: `Manage Leaflet tasks from the terminal.

Changes apply locally first and are sent to the server right away. When the
server cannot be reached they are kept in the local cache and replayed by
"leaflet sync" or "leaflet watch".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default searches ./config, ., /etc/leaflet)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides client.server_url)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "local cache file (overrides client.cache_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log sync activity to stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// setup builds the syncer and loads the task list before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	logger := log.Init(log.ZapConfig{
		Level:        level,
		Mode:         log.ModeDevelopment,
		Encoding:     log.EncodingConsole,
		ColorEnabled: cfg.Logger.ColorEnabled,
		Stderr:       true,
	})

	url := serverURL
	if url == "" {
		url = cfg.Client.ServerURL
	}
	path := cachePath
	if path == "" {
		path = cfg.Client.CachePath
	}
	reconcileInterval = cfg.Client.ReconcileInterval

	syncer = syncclient.New(
		syncclient.NewRemoteClient(url, cfg.Client.Timeout),
		syncclient.NewCache(path, logger),
		logger,
	)

	res, err := syncer.Load(cmd.Context())
	if err != nil {
		return err
	}
	if !res.Online {
		fmt.Fprintf(cmd.ErrOrStderr(), "offline: %s unreachable, using cached tasks\n", url)
	}
	return nil
}
