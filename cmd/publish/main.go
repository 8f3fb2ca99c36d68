// Command publish sends a verification-request payload to the SNS topic the
// dispatcher is subscribed to. Dev tooling for driving the pub/sub path.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/verify-dispatch/internal/config"
	snsinfra "github.com/verify-dispatch/internal/infrastructure/sns"
)

func main() {
	var (
		topic  = flag.String("topic", "", "SNS topic ARN (defaults to SNS_TOPIC_ARN)")
		email  = flag.String("email", "", "recipient email address")
		token  = flag.String("token", "", "verification token (caller token mode)")
		userID = flag.String("user-id", "", "user id (derived token mode)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	arn := *topic
	if arn == "" {
		arn = cfg.SNSTopicARN
	}
	if arn == "" {
		log.Fatal("no topic: pass -topic or set SNS_TOPIC_ARN")
	}
	if *email == "" {
		log.Fatal("-email is required")
	}
	if *token == "" && *userID == "" {
		log.Fatal("one of -token or -user-id is required")
	}

	payload := map[string]string{"email": *email}
	if *token != "" {
		payload["verification_token"] = *token
	}
	if *userID != "" {
		payload["user_id"] = *userID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal payload: %v", err)
	}

	pub, err := snsinfra.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("create publisher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, arn, string(body)); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published verification request for %s to %s", *email, arn)
}
