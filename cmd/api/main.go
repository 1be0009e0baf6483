package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"

	"kidpress/api/internal/aiassist"
	"kidpress/api/internal/app"
	"kidpress/api/internal/config"
	"kidpress/api/internal/identity"
	"kidpress/api/internal/search"
	"kidpress/api/internal/session"
	"kidpress/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Fatalf("firestore connection failed: %v", err)
	}
	defer client.Close()
	dataStore := store.NewFirestoreStore(client)

	redisStore, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisStore.Close()

	fallback := search.NewStoreScan(dataStore)
	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, fallback)

	var google *identity.GoogleVerifier
	if strings.TrimSpace(cfg.GoogleOAuthClientID) != "" {
		google = identity.NewGoogleVerifier(cfg.GoogleOAuthClientID)
	}

	var provider aiassist.Provider
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		provider = aiassist.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Printf("GEMINI_API_KEY not set; AI assist runs degraded")
	}
	assist := aiassist.NewGateway(provider)

	service := app.New(cfg, dataStore, redisStore, searchService, google, assist)

	unsubscribe := service.SessionEvents().Subscribe(func(user *store.UserProfile) {
		if user == nil {
			return
		}
		log.Printf("session: %s signed in as %s", user.Email, user.Role)
	})
	defer unsubscribe()

	if err := service.ReindexArticles(ctx); err != nil {
		log.Printf("WARNING: search reindex failed (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Kidpress API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
