package config

import (
	"os"
	"strings"
)

// Credential source strategies, selected at deployment.
const (
	CredentialSourceEnv            = "env"
	CredentialSourceSecretsManager = "secretsmanager"
)

// Token modes, selected at deployment.
const (
	TokenModeCaller  = "caller"  // token arrives in the payload
	TokenModeDerived = "derived" // token derived from user_id + expiry
)

// Persistence strategies, selected at deployment.
const (
	PersistenceNone     = "none"
	PersistencePostgres = "postgres"
	PersistenceDynamo   = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	CredentialSource   string // "env" | "secretsmanager"
	SendGridAPIKey     string // used when CredentialSource is "env"
	SendGridSecretName string // Secrets Manager secret id holding the API key

	LinkScheme string // "http" | "https"
	LinkDomain string
	EnvPrefix  string // optional subdomain segment, without the trailing dot

	EmailFrom         string
	UnsubscribeMailto string

	TokenMode       string // "caller" | "derived"
	TokenSigningKey string // optional HMAC key for derived tokens

	Persistence              string // "none" | "postgres" | "dynamo"
	DatabaseURL              string
	DynamoTableVerifications string

	SNSTopicARN   string
	ArchiveBucket string // optional; empty disables message archiving

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		CredentialSource:   getEnv("CREDENTIAL_SOURCE", CredentialSourceEnv),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridSecretName: getEnv("SENDGRID_API_KEY_SECRET_NAME", "sendgrid/api-key"),

		LinkScheme: getEnv("LINK_SCHEME", "http"),
		LinkDomain: getEnv("LINK_DOMAIN", "cloudjourney.me"),
		EnvPrefix:  strings.TrimSuffix(strings.TrimSpace(getEnv("ENV_PREFIX", "")), "."),

		EmailFrom:         getEnv("EMAIL_FROM", "noreply@em7116.cloudjourney.me"),
		UnsubscribeMailto: getEnv("UNSUBSCRIBE_MAILTO", "unsubscribe@em7116.cloudjourney.me"),

		TokenMode:       getEnv("TOKEN_MODE", TokenModeCaller),
		TokenSigningKey: getEnv("TOKEN_SIGNING_KEY", ""),

		Persistence:              getEnv("PERSISTENCE", PersistenceNone),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		DynamoTableVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verification"),

		SNSTopicARN:   getEnv("SNS_TOPIC_ARN", ""),
		ArchiveBucket: getEnv("ARCHIVE_BUCKET", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
