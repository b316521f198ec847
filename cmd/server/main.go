package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bizgate/go-tenant-auth/audit"
	"github.com/bizgate/go-tenant-auth/auth"
	"github.com/bizgate/go-tenant-auth/internal/config"
	"github.com/bizgate/go-tenant-auth/internal/store/pg"
	"github.com/bizgate/go-tenant-auth/server"
	"github.com/bizgate/go-tenant-auth/token"
	"github.com/bizgate/go-tenant-auth/token/refresh"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	store, err := pg.Open(c.GetDatabaseURL())
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer store.Close()

	signer := token.NewHMACSigner(c.GetJWTSecret())
	tokens := token.New(signer, store.RefreshTokens, store.Tenants,
		token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()))

	repos := auth.Repos{
		Tenants:       store.Tenants,
		Subscriptions: store.Subscriptions,
	}

	srv, err := server.New(c, repos, tokens, audit.NewZerologSink(log.Logger), server.WithPinger(store))
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := refresh.NewSweeper(store.RefreshTokens, c.GetSweepInterval(), log.Logger)
	go sweeper.Run(ctx)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	cancel()
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
