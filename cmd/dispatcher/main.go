package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/verify-dispatch/internal/application/dispatch"
	"github.com/verify-dispatch/internal/config"
	"github.com/verify-dispatch/internal/infrastructure/dynamo"
	"github.com/verify-dispatch/internal/infrastructure/postgres"
	s3infra "github.com/verify-dispatch/internal/infrastructure/s3"
	secretsinfra "github.com/verify-dispatch/internal/infrastructure/secretsmanager"
	"github.com/verify-dispatch/internal/infrastructure/sendgrid"
	"github.com/verify-dispatch/internal/pkg/link"
	"github.com/verify-dispatch/internal/pkg/token"
	transporthttp "github.com/verify-dispatch/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Credential strategy. With the env source an absent key is a
	// deployment fault caught here at cold start, not per request.
	var credentials dispatch.CredentialResolver
	switch cfg.CredentialSource {
	case config.CredentialSourceEnv:
		if cfg.SendGridAPIKey == "" {
			log.Fatal("SENDGRID_API_KEY is required when CREDENTIAL_SOURCE=env")
		}
		credentials = dispatch.StaticCredential(cfg.SendGridAPIKey)
	case config.CredentialSourceSecretsManager:
		credentials = secretsinfra.NewResolver(secretsinfra.NewClient(cfg), cfg.SendGridSecretName)
	default:
		log.Fatalf("unknown CREDENTIAL_SOURCE %q", cfg.CredentialSource)
	}

	// Token strategy.
	var tokens dispatch.TokenSource
	switch cfg.TokenMode {
	case config.TokenModeCaller:
		tokens = dispatch.CallerTokens()
	case config.TokenModeDerived:
		var signer *token.Signer
		if cfg.TokenSigningKey != "" {
			signer = token.NewSigner(cfg.TokenSigningKey)
		}
		tokens = dispatch.DerivedTokens(signer)
	default:
		log.Fatalf("unknown TOKEN_MODE %q", cfg.TokenMode)
	}

	// Persistence strategy.
	var recorder dispatch.Recorder
	switch cfg.Persistence {
	case config.PersistenceNone:
	case config.PersistencePostgres:
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required when PERSISTENCE=postgres")
		}
		recorder = postgres.NewRecorder(cfg.DatabaseURL)
	case config.PersistenceDynamo:
		recorder = dynamo.NewRecorder(dynamo.NewClient(cfg), cfg.DynamoTableVerifications)
	default:
		log.Fatalf("unknown PERSISTENCE %q", cfg.Persistence)
	}

	// Optional message archive.
	var archiver dispatch.Archiver
	if cfg.ArchiveBucket != "" {
		archiver = s3infra.NewStore(s3infra.NewClient(cfg), cfg.ArchiveBucket)
	}

	svc := dispatch.NewService(dispatch.ServiceDeps{
		Credentials: credentials,
		Tokens:      tokens,
		Links: &link.Builder{
			Scheme: cfg.LinkScheme,
			Prefix: cfg.EnvPrefix,
			Domain: cfg.LinkDomain,
		},
		Mailer:            sendgrid.NewMailer(),
		Recorder:          recorder,
		Archiver:          archiver,
		From:              cfg.EmailFrom,
		UnsubscribeMailto: cfg.UnsubscribeMailto,
	})

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{Dispatcher: svc})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
