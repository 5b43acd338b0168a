package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/castlet/castlet"
	"github.com/castlet/castlet/pkg/adapters/memory"
	redisreg "github.com/castlet/castlet/pkg/adapters/redis"
	"github.com/castlet/castlet/pkg/command"
	"github.com/castlet/castlet/pkg/observability"
	"github.com/castlet/castlet/pkg/receiver"
)

// NewController wires a castlet controller with CLI conventions: a
// redis-backed registry when one is configured, pre-registered
// applications from the config file, and the in-process loopback opener
// so the window transport works without a real windowing layer. Real
// deployments embed the library and inject their own environment.
func NewController(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*castlet.Controller, error) {
	opts := []castlet.Option{
		castlet.WithLogger(logger),
		castlet.WithMetrics(metrics),
		castlet.WithSurfaceOpener(memory.NewOpener(loopbackReceiver(logger))),
	}

	if cfg.Redis.Addr != "" {
		logger.Info("using redis application registry", "addr", cfg.Redis.Addr)
		opts = append(opts, castlet.WithRegistry(
			redisreg.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
		))
	}

	ctrl := castlet.New(opts...)

	for _, app := range cfg.Applications {
		if err := ctrl.RegisterApplication(ctx, app.URL, app.LaunchID); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", app.URL, err)
		}
		logger.Debug("application registered", "url", app.URL, "app", app.LaunchID)
	}

	return ctrl, nil
}

// loopbackReceiver boots every opened window as an in-process receiver
// with the standard slide-show command set, logging what a real
// presentation page would execute.
func loopbackReceiver(logger *slog.Logger) memory.LaunchFunc {
	return func(env *memory.Environment) {
		recv := castlet.NewReceiver(
			castlet.WithWindowEnvironment(env),
			castlet.WithReceiverLogger(logger),
		)
		recv.OnPresent(func(p receiver.Present) {
			d := command.New(
				command.WithLogger(logger),
				command.WithLoader(func(url string) {
					logger.Info("receiver: loading new content", "url", url)
				}),
			)
			for _, name := range []string{"navigate-next", "navigate-previous", "resize", "toggle-panel"} {
				name := name
				d.Register(name, func(params ...any) {
					logger.Info("receiver: command executed", "cmd", name, "params", params)
				})
			}
			d.Bind(p.Session)
		})
		recv.Run(context.Background())
	}
}
