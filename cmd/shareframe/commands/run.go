package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/shareframe/internal/api"
	"github.com/bryanchriswhite/shareframe/internal/app"
	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/hotkey"
	"github.com/bryanchriswhite/shareframe/internal/logger"
	"github.com/bryanchriswhite/shareframe/internal/mode"
	"github.com/bryanchriswhite/shareframe/internal/notify"
	"github.com/bryanchriswhite/shareframe/internal/window"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the frame and listen for the toggle hotkey",
	Long: `Creates the frame window in Alignment mode, registers the global
toggle hotkey and runs until interrupted. Pass --api-port (or enable
the API in the config file) to expose the local control API.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Flags override the config file.
	if lvl := viper.GetString("log_level"); lvl != "" {
		configMgr.SetLogLevel(lvl)
	}
	if port := viper.GetInt("api_port"); port > 0 {
		configMgr.SetAPIPort(port)
	}
	cfg := configMgr.Get()

	logger.Init(cfg.LogLevel, cfg.LogPretty)
	log := logger.WithComponent("main")

	// An unparseable hotkey is a startup error, not something to limp
	// past: without the toggle the tool is useless.
	binding, err := hotkey.Parse(cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("invalid hotkey %q: %w", cfg.Hotkey, err)
	}

	backend, err := window.NewBackend()
	if err != nil {
		return fmt.Errorf("failed to initialize window backend: %w", err)
	}
	if err := backend.Connect(); err != nil {
		return fmt.Errorf("failed to connect to display server: %w", err)
	}
	defer backend.Close()
	log.Info().Str("backend", backend.Name()).Msg("Window backend ready")

	frame, err := backend.CreateFrame(cfg.Frame)
	if err != nil {
		return fmt.Errorf("failed to create frame window: %w", err)
	}
	defer frame.Close()

	ctrl := mode.NewController(frame, frame.Protector(), cfg.Frame.AlignmentOpacity)
	if err := ctrl.Apply(); err != nil {
		return fmt.Errorf("failed to enter alignment mode: %w", err)
	}

	listener := hotkey.NewListener(binding)
	if err := listener.Start(); err != nil {
		if errors.Is(err, hotkey.ErrRegistration) {
			return fmt.Errorf("hotkey %s is already taken by another application: %w", binding, err)
		}
		return fmt.Errorf("failed to register hotkey: %w", err)
	}
	defer listener.Stop()

	loop := app.New(ctrl, frame, notify.New(), listener.Events())

	if cfg.API.Enabled {
		server := api.NewServer(loop, configMgr)
		go func() {
			if err := server.Start(cfg.API.Port); err != nil {
				log.Error().Err(err).Msg("Control API stopped")
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("mode", string(ctrl.Mode())).
		Msg("ShareFrame running, press the hotkey to toggle modes")

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("Shutting down")
	return nil
}
