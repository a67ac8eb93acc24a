package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/dmtool-server/auth"
	"github.com/jrsteele09/dmtool-server/campaigns"
	"github.com/jrsteele09/dmtool-server/credentials"
	"github.com/jrsteele09/dmtool-server/internal/config"
	"github.com/jrsteele09/dmtool-server/server"
	"github.com/jrsteele09/dmtool-server/storage/sqlstore"
	"github.com/jrsteele09/dmtool-server/systems"
	"github.com/jrsteele09/dmtool-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logger := newLogger(c.GetEnv())
	log.Logger = logger
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, c.GetDBDriver(), c.GetDBDSN(), logger)
	if err != nil {
		return err
	}
	defer store.Close()
	reportOrphans(ctx, store, logger)

	handler, err := newServer(c, store, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func newServer(c config.Config, store *sqlstore.Store, logger zerolog.Logger) (*server.Server, error) {
	if c.GetHashScheme() == credentials.SchemeMD5 {
		logger.Warn().Msg("HASH_SCHEME=md5 stores unsalted digests; set HASH_SCHEME=bcrypt for new deployments")
	}
	hasher, err := credentials.New(c.GetHashScheme())
	if err != nil {
		return nil, err
	}

	signer, err := token.NewHMACSigner(c.GetAuthKey())
	if err != nil {
		return nil, err
	}
	codec, err := token.NewCodec(signer, token.WithTTL(c.GetTokenTTL()))
	if err != nil {
		return nil, err
	}

	accounts, err := auth.NewAccountService(store.Users(), hasher, codec)
	if err != nil {
		return nil, err
	}
	systemsService, err := systems.NewService(store.Systems())
	if err != nil {
		return nil, err
	}
	coordinator, err := campaigns.NewCoordinator(store.Campaigns(), hasher,
		campaigns.WithWriteMode(campaigns.WriteMode(c.GetCampaignWriteMode())),
		campaigns.WithLogger(logger.With().Str("component", "campaigns").Logger()),
	)
	if err != nil {
		return nil, err
	}

	return server.New(c, server.Services{
		Accounts:  accounts,
		Systems:   systemsService,
		Campaigns: coordinator,
		Tokens:    codec,
	}, logger)
}

// reportOrphans logs campaigns left without a GM by an earlier failed
// compensation.
func reportOrphans(ctx context.Context, store *sqlstore.Store, logger zerolog.Logger) {
	orphans, err := store.Campaigns().Orphans(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to check for campaigns without gm")
		return
	}
	if len(orphans) > 0 {
		logger.Error().Ints64("campaign_ids", orphans).Bool("manual_intervention", true).Msg("campaigns without gm found")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
