package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/typehier/typehier/blobstore"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentPublish is returned when another publisher committed the same
// version first.
var ErrConcurrentPublish = errors.New("concurrent snapshot publish detected")

// PointerTable tracks the current core index snapshot in DynamoDB.
//
// S3 objects are immutable and snapshot publishes append new objects, so the
// only coordination problem is advancing the "current" pointer. DynamoDB
// conditional writes give the compare-and-swap that S3 lacks.
//
// Table schema:
//   - Partition key: scope (string) — the index namespace, e.g. "s3://bucket/type-index"
//   - Sort key: version (number) — monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name typehier-snapshots \
//	  --attribute-definitions AttributeName=scope,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=scope,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type PointerTable struct {
	client    DDBClient
	tableName string
	scope     string
}

// NewPointerTable creates a pointer table over an existing DynamoDB table.
func NewPointerTable(client DDBClient, tableName, scope string) *PointerTable {
	return &PointerTable{
		client:    client,
		tableName: tableName,
		scope:     scope,
	}
}

// Current returns the name of the current snapshot blob and its version.
// It returns blobstore.ErrNotFound when nothing has been published yet.
func (p *PointerTable) Current(ctx context.Context) (name string, version uint64, err error) {
	version, name, err = p.latest(ctx)
	if err != nil {
		return "", 0, err
	}
	if version == 0 {
		return "", 0, blobstore.ErrNotFound
	}
	return name, version, nil
}

// Publish advances the current pointer to the given snapshot blob name.
// It returns the committed version, or ErrConcurrentPublish if another
// publisher won the race for the next version.
func (p *PointerTable) Publish(ctx context.Context, name string) (uint64, error) {
	current, _, err := p.latest(ctx)
	if err != nil {
		return 0, err
	}
	next := current + 1

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item: map[string]types.AttributeValue{
			"scope":    &types.AttributeValueMemberS{Value: p.scope},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentPublish
		}
		return 0, fmt.Errorf("commit snapshot pointer: %w", err)
	}
	return next, nil
}

// latest queries DynamoDB for the highest committed version.
// Returns version 0 when the scope has no entries.
func (p *PointerTable) latest(ctx context.Context) (uint64, string, error) {
	resp, err := p.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(p.tableName),
		KeyConditionExpression: aws.String("#s = :scope"),
		ExpressionAttributeNames: map[string]string{
			"#s": "scope",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scope": &types.AttributeValueMemberS{Value: p.scope},
		},
		ScanIndexForward: aws.Bool(false), // descending, newest first
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query snapshot pointer: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in pointer table")
	}
	nameAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid snapshot attribute in pointer table")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse pointer version: %w", err)
	}
	return version, nameAttr.Value, nil
}
