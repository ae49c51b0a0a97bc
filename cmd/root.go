package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/adminserver"
	"github.com/omenapps/adminsort/internal/config"
	"github.com/omenapps/adminsort/internal/log"
	"github.com/omenapps/adminsort/internal/middleware"
	"github.com/omenapps/adminsort/internal/registry"
	"github.com/omenapps/adminsort/internal/testutil"
	"github.com/omenapps/adminsort/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "adminsort",
	Short: "Reorder and relabel the admin index app list",
	Long: `adminsort intercepts an admin site's index rendering and replaces the
default app/model listing with a configured ordering, optionally renaming
app and model display labels.

Running without a subcommand serves a demo admin index with the reorder
middleware installed, so a configuration can be tried end to end:

  adminsort --config .adminsort/config.yaml
  curl localhost:8084/admin/`,
	Version: version,
	RunE:    runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/adminsort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
	rootCmd.Flags().String("addr", "",
		"address for the demo admin server")

	// Bind flags to viper
	_ = viper.BindPFlag("server.addr", rootCmd.Flags().Lookup("addr"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("reorder.valid_url_names", defaults.Reorder.ValidURLNames)
	viper.SetDefault("reorder.append_unrepresented", defaults.Reorder.AppendUnrepresented)
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("log.enabled", defaults.Log.Enabled)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .adminsort/config.yaml (current directory)
		// 2. ~/.config/adminsort/config.yaml (user config)
		if _, err := os.Stat(".adminsort/config.yaml"); err == nil {
			viper.SetConfigFile(".adminsort/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "adminsort"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .adminsort/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".adminsort/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Log.Enabled || debugFlag || os.Getenv("ADMINSORT_DEBUG") != "" {
		cleanup, err := log.Init(cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.SetMinLevel(logLevel(cfg.Log.Level))
	}

	if err := config.ValidateTracing(cfg.Tracing); err != nil {
		return fmt.Errorf("invalid tracing configuration: %w", err)
	}
	if err := config.ValidateLog(cfg.Log); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}

	// The reorder section is deliberately NOT validated here: per the
	// middleware's contract, configuration errors surface on the first
	// admin request. Use `adminsort check` for eager validation.

	tracerCfg := cfg.TracerConfig()
	if tracerCfg.Enabled && tracerCfg.Exporter == "file" && tracerCfg.FilePath == "" {
		tracerCfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracerCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	apps, reg := sampleProject()
	handler := adminserver.NewHandler(apps)

	mw := middleware.New(cfg, handler.Resolver(), reg,
		middleware.WithTracer(provider.Tracer()))

	server, err := adminserver.NewServer(adminserver.ServerConfig{
		Addr:       cfg.Server.Addr,
		Middleware: mw,
		Apps:       apps,
	})
	if err != nil {
		return fmt.Errorf("creating admin server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("Demo admin server on port %d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.ErrorErr(log.CatHTTP, "Error stopping admin server", err)
	}
	return nil
}

// sampleProject returns the app listing and model registry the demo
// server pretends its framework produced.
func sampleProject() ([]adminindex.App, *registry.Registry) {
	return testutil.PresetProject(), testutil.PresetRegistry()
}

func logLevel(name string) log.Level {
	switch name {
	case "info":
		return log.LevelInfo
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelDebug
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
