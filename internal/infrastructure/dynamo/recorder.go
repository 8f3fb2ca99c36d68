package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/verify-dispatch/internal/domain"
)

// Recorder writes verification records to DynamoDB.
// PK: user_id. expiration_time is stored as Unix seconds and can serve as
// the table's TTL attribute.
type Recorder struct {
	client    *dynamodb.Client
	tableName string
}

func NewRecorder(client *dynamodb.Client, tableName string) *Recorder {
	return &Recorder{client: client, tableName: tableName}
}

func (r *Recorder) Record(ctx context.Context, rec *domain.VerificationRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal verification record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verification record: %w", err)
	}
	return nil
}
