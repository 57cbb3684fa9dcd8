package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-poster/domain/repository"
	"social-poster/infrastructure/clients/facebook"
	"social-poster/infrastructure/clients/instagram"
	"social-poster/infrastructure/clients/threads"
	"social-poster/infrastructure/clients/tiktok"
	"social-poster/infrastructure/clients/xtwitter"
	"social-poster/infrastructure/clients/youtube"
	"social-poster/infrastructure/configuration"
	"social-poster/infrastructure/logger"
	"social-poster/infrastructure/storage"
	httpHandler "social-poster/interfaces/http"
	"social-poster/server"
	"social-poster/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Env files are optional; OS env still has precedence over their values.
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	app := configuration.C.App

	posters := map[string]repository.IPlatformPoster{
		"facebook":  facebook.NewClient(configuration.C.Facebook),
		"instagram": instagram.NewClient(configuration.C.Instagram),
		"tiktok":    tiktok.NewClient(configuration.C.TikTok),
		"x":         xtwitter.NewClient(configuration.C.X),
		"threads":   threads.NewClient(configuration.C.Threads),
		"youtube":   youtube.NewClient(configuration.C.YouTube),
	}

	logger.GetLogger().
		WithField("available", configuration.AvailablePlatforms()).
		Info("Platform credentials loaded")

	postUsecase := usecase.NewPostUsecase(posters)
	authUsecase := usecase.NewAuthUsecase(posters)
	uploadUsecase := usecase.NewUploadUsecase(storage.NewLocalStore(configuration.C.Upload.Dir))

	metaHandler := httpHandler.NewMetaHandler(app.Version, configuration.AvailablePlatforms)
	postHandler := httpHandler.NewPostHandler(postUsecase)
	authHandler := httpHandler.NewAuthHandler(authUsecase)
	uploadHandler := httpHandler.NewUploadHandler(uploadUsecase)

	router := server.InitiateRouter(metaHandler, postHandler, authHandler, uploadHandler)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
