package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"petsitter/appuser"
	"petsitter/auth"
	"petsitter/availability"
	"petsitter/config"
	"petsitter/db"
	"petsitter/httpapi"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/pet"
	"petsitter/review"
	"petsitter/seed"
	"petsitter/sitter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	appuserRepo := appuser.NewRepository(pool)
	petRepo := pet.NewRepository(pool)
	inquiryRepo := inquiry.NewRepository(pool)

	hub := messaging.NewHub()

	authService := auth.NewService(appuserRepo, cfg.JWTSecret)
	appuserService := appuser.NewService(appuserRepo)
	sitterService := sitter.NewService(sitter.NewRepository(pool))
	petService := pet.NewService(petRepo)
	availabilityService := availability.NewService(availability.NewRepository(pool))
	inquiryService := inquiry.NewService(inquiryRepo, petRepo)
	messageService := messaging.NewService(messaging.NewRepository(pool), inquiryRepo, hub)
	reviewService := review.NewService(review.NewRepository(pool))

	if cfg.SeedDemoData {
		err := seed.Run(ctx, seed.Services{
			Auth:           authService,
			Appusers:       appuserService,
			Sitters:        sitterService,
			Pets:           petService,
			Availabilities: availabilityService,
			Inquiries:      inquiryService,
			Messages:       messageService,
			Reviews:        reviewService,
		})
		if err != nil {
			log.Fatalf("seed demo data: %v", err)
		}
	}

	handler := httpapi.NewRouter(httpapi.Options{
		Auth:           authService,
		Appusers:       appuserService,
		Sitters:        sitterService,
		Pets:           petService,
		Availabilities: availabilityService,
		Inquiries:      inquiryService,
		Messages:       messageService,
		Hub:            hub,
		Reviews:        reviewService,
		AllowedOrigin:  cfg.AllowedOrigin,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Printf("shutdown complete")
}
