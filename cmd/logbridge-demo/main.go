package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/upb/logbridge/app"
	"github.com/upb/logbridge/config"
	"github.com/upb/logbridge/engine"
	"github.com/upb/logbridge/internal/demo/routes"
	"github.com/upb/logbridge/observability"
)

// flags shared by serve and emit
type flags struct {
	configPath string
	envFiles   []string
	addr       string
	extreme    bool
	tick       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "logbridge-demo",
		Short:         "Demo service for the logbridge logger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newEmitCmd())
	return rootCmd
}

func bindFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a yaml logger config")
	cmd.Flags().StringSliceVar(&f.envFiles, "env-file", nil, "env files to load before reading the environment")
	cmd.Flags().BoolVar(&f.extreme, "extreme", false, "buffer records and flush them periodically")
	cmd.Flags().DurationVar(&f.tick, "tick", 0, "flush interval in extreme mode")
}

func newServeCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP demo server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), f)
		},
	}
	bindFlags(cmd, &f)
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address, overrides SERVER_HOST and SERVER_PORT")
	return cmd
}

func newEmitCmd() *cobra.Command {
	var (
		f       flags
		level   string
		ctxName string
		trace   string
	)
	cmd := &cobra.Command{
		Use:   "emit [message]",
		Short: "Write one record through the logger and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := observability.ParseLevel(level)
			if err != nil {
				return err
			}
			return emit(cmd.Context(), f, lvl, strings.Join(args, " "), trace, ctxName)
		},
	}
	bindFlags(cmd, &f)
	cmd.Flags().StringVar(&level, "level", "log", "record level: error, log, warn, debug or verbose")
	cmd.Flags().StringVar(&ctxName, "context", "", "context name for the record")
	cmd.Flags().StringVar(&trace, "trace", "", "trace attached to error records")
	return cmd
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(ctx context.Context, f flags) (*config.Config, error) {
	cfg, err := config.New(ctx, f.configPath, f.envFiles...)
	if err != nil {
		return nil, err
	}
	if f.extreme {
		cfg.Logger.ExtremeMode.Enabled = true
	}
	if f.tick > 0 {
		cfg.Logger.ExtremeMode.Tick = f.tick
	}
	if f.addr != "" {
		host, port, err := net.SplitHostPort(f.addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", f.addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", port, err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = p
	}
	return cfg, nil
}

// appOptions assembles the fx graph for serve.
func appOptions(ctx context.Context, f flags) (fx.Option, error) {
	root, err := app.ForRootAsync(app.AsyncOptions{
		Imports: []fx.Option{
			fx.Provide(func() (*config.Config, error) { return loadConfig(ctx, f) }),
		},
		UseFactory: func(cfg *config.Config) *config.Options { return &cfg.Logger },
	})
	if err != nil {
		return nil, err
	}
	return fx.Options(
		root,
		app.WithEventLogger(),
		app.ForFeature(app.FeatureOptions{Name: "http"},
			fx.Provide(newDependencies),
			fx.Invoke(registerServer),
		),
	), nil
}

func newDependencies(cfg *config.Config, eng *engine.Logger, loggers *observability.Factory) *app.Dependencies {
	return &app.Dependencies{
		Config:  cfg,
		Engine:  eng,
		Loggers: loggers,
		Logger:  loggers.For(observability.Name("server")),
	}
}

type serverParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Deps       *app.Dependencies
}

// registerServer runs the demo HTTP server for the lifetime of the app.
func registerServer(p serverParams) {
	cfg := p.Deps.Config.Server
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           routes.SetupRoutes(p.Deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	logger := p.Deps.Logger

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}
			logger.Log(observability.Fields{"msg": "server listening", "addr": ln.Addr().String()})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "")
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Log("server stopping")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func serve(ctx context.Context, f flags) error {
	opts, err := appOptions(ctx, f)
	if err != nil {
		return err
	}

	var signal *app.ShutdownSignal
	fxApp := fx.New(opts, fx.Populate(&signal))
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}

	sig := <-fxApp.Wait()
	signal.Record(sig.Signal)

	stopCtx, cancel := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer cancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("server exited with code %d", sig.ExitCode)
	}
	return nil
}

// emit writes one record without fx, through app.Dependencies.
func emit(ctx context.Context, f flags, level observability.Level, message, trace, ctxName string) error {
	cfg, err := loadConfig(ctx, f)
	if err != nil {
		return err
	}
	deps, err := app.NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	logger := deps.Loggers.For(observability.Name("cli"))
	switch level {
	case observability.LevelError:
		logger.Error(message, trace, ctxName)
	case observability.LevelWarn:
		logger.Warn(message, ctxName)
	case observability.LevelDebug:
		logger.Debug(message, ctxName)
	case observability.LevelVerbose:
		logger.Verbose(message, ctxName)
	default:
		logger.Log(message, ctxName)
	}
	return deps.Close(ctx, "")
}
