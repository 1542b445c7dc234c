package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/onbase/internal/adapters/http/api"
	"github.com/okian/onbase/internal/adapters/http/swagger"
	"github.com/okian/onbase/internal/adapters/reference"
	"github.com/okian/onbase/internal/adapters/repository"
	"github.com/okian/onbase/internal/adapters/statsapi"
	service "github.com/okian/onbase/internal/app"
	"github.com/okian/onbase/internal/config"
	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/internal/domain/streak"
	"github.com/okian/onbase/internal/render"
	"github.com/okian/onbase/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

type rootFlags struct {
	configPath string
	logLevel   string
	showGames  bool
	noColor    bool
	limit      int
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	trackRun := func(cmd *cobra.Command, _ []string) error {
		return runTrack(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
	}

	root := &cobra.Command{
		Use:   "onbase",
		Short: "Track a player's consecutive-game on-base streak",
		Long: `onbase follows one player's streak of consecutive games reaching base,
keeps its history across runs, and ranks it against the all-time leaderboard.

Commands:
  track    Refresh once and print the report (default)
  serve    Serve the streak over HTTP
  version  Print the build version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          trackRun,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file (overrides $ONBASE_CONFIG)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	trackFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVarP(&flags.showGames, "show-games", "g", false, "print the game log of the streak window")
		cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
		cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "leaderboard rows to print (0 = all)")
	}
	trackFlags(root)

	track := &cobra.Command{
		Use:   "track",
		Short: "Refresh the streak once and print the report",
		Args:  cobra.NoArgs,
		RunE:  trackRun,
	}
	trackFlags(track)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the streak, leaderboard and games over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd.ErrOrStderr(), flags)
		},
	}

	root.AddCommand(track, serve, versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "onbase %s\n", version)
		},
	}
}

// bootstrap initializes logging and loads configuration.
func bootstrap(ctx context.Context, logOut io.Writer, flags *rootFlags) (*config.Config, error) {
	if err := logger.Init(logger.WithWriter(logOut)); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	// Load configuration (defaults -> optional file -> .env -> env)
	cfg, err := config.Load(ctx, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	if err := logger.Init(logger.WithWriter(logOut), logger.WithFormat(cfg.LogFormat)); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// buildTracker wires the feed, store and reference data for cfg. The
// returned store must be closed by the caller.
func buildTracker(ctx context.Context, cfg *config.Config) (*service.Tracker, repository.Store, error) {
	log := logger.Get()

	ref, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load reference data: %w", err)
	}

	client, err := statsapi.NewClient(cfg.StatsAPI.BaseURL,
		statsapi.WithTimeout(time.Duration(cfg.StatsAPI.TimeoutMS)*time.Millisecond),
		statsapi.WithRateLimit(cfg.StatsAPI.RequestsPerSecond, cfg.StatsAPI.Burst),
		statsapi.WithFinalCacheSize(cfg.StatsAPI.FinalCacheSize),
	)
	if err != nil {
		return nil, nil, err
	}
	feed := statsapi.NewFeed(client, cfg.Player.ID, cfg.Seasons, log.Named("feed"))

	store, err := repository.Open(ctx, cfg.Store, cfg.Player.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	log.Debug(ctx, "store opened", logger.String("backend", cfg.Store.Backend))

	player := model.Player{ID: cfg.Player.ID, Name: cfg.Player.Name, Team: cfg.Player.Team}
	tr := service.New(feed, store, player,
		service.WithLogger(log.Named("tracker")),
		service.WithReference(ref),
		service.WithSeasons(cfg.Seasons),
		service.WithStreakOptions(streak.Options{EndOnZero: cfg.Streak.EndOnZero}),
	)
	return tr, store, nil
}

func runTrack(ctx context.Context, out, errOut io.Writer, flags *rootFlags) error {
	cfg, err := bootstrap(ctx, errOut, flags)
	if err != nil {
		return err
	}
	tr, store, err := buildTracker(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := tr.Refresh(ctx)
	if err != nil && !errors.Is(err, repository.ErrWriteFailed) {
		return err
	}

	r := render.New(out,
		render.WithGames(flags.showGames),
		render.WithColor(!flags.noColor && !color.NoColor),
		render.WithLimit(flags.limit),
	)
	if rerr := r.Render(res); rerr != nil {
		return rerr
	}
	// A failed write still shows this run's result but fails the command.
	return err
}

func runServe(ctx context.Context, errOut io.Writer, flags *rootFlags) error {
	cfg, err := bootstrap(ctx, errOut, flags)
	if err != nil {
		return err
	}
	log := logger.Get()

	tr, store, err := buildTracker(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := tr.Refresh(ctx); err != nil {
		log.Warn(ctx, "initial refresh failed; serving until the next POST /refresh", logger.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, tr, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newMux registers the docs and API routes.
func newMux(ctx context.Context, tr api.Dependencies, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(tr, cfg.MaxLeaderboardLimit).Register(ctx, mux)
	return mux
}
