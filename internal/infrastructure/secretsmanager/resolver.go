package secretsmanager

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/verify-dispatch/internal/config"
)

// NewClient creates a Secrets Manager client. When cfg.AWSEndpointURL is set
// (LocalStack), it overrides the endpoint so all traffic goes to the local
// instance.
func NewClient(cfg *config.Config) *secretsmanager.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for Secrets Manager: " + err.Error())
	}

	clientOpts := []func(*secretsmanager.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return secretsmanager.NewFromConfig(awsCfg, clientOpts...)
}

// Resolver fetches a fixed secret on every invocation. Lambda-style
// processes carry no persistence guarantee across calls, so the value is
// never cached here.
type Resolver struct {
	client   *secretsmanager.Client
	secretID string
}

func NewResolver(client *secretsmanager.Client, secretID string) *Resolver {
	return &Resolver{client: client, secretID: secretID}
}

// Resolve returns the raw string secret. A single failed lookup aborts the
// request; the triggering system owns redelivery.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretID),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w", r.secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", r.secretID)
	}
	return *out.SecretString, nil
}
