package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the subset of the DynamoDB API the ledger uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// DynamoLedger stores entries in a DynamoDB table.
//
// Table schema:
//   - Partition key: trace (string)
//   - Sort key: started_at (number, unix nanoseconds)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name trajfilter-runs \
//	  --attribute-definitions AttributeName=trace,AttributeType=S AttributeName=started_at,AttributeType=N \
//	  --key-schema AttributeName=trace,KeyType=HASH AttributeName=started_at,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DynamoLedger struct {
	client DDBClient
	table  string
}

// NewDynamoLedger returns a ledger writing to table.
func NewDynamoLedger(client DDBClient, table string) *DynamoLedger {
	return &DynamoLedger{client: client, table: table}
}

// Append writes e. An existing item with the same key is not overwritten.
func (l *DynamoLedger) Append(ctx context.Context, e Entry) error {
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.table),
		Item:                marshalEntry(e),
		ConditionExpression: aws.String("attribute_not_exists(started_at)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("ledger: put entry for %s: %w", e.Trace, err)
	}
	return nil
}

// Latest queries the newest entry for trace.
func (l *DynamoLedger) Latest(ctx context.Context, trace string) (Entry, error) {
	resp, err := l.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(l.table),
		KeyConditionExpression: aws.String("#t = :trace"),
		ExpressionAttributeNames: map[string]string{
			"#t": "trace",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":trace": &types.AttributeValueMemberS{Value: trace},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: query %s: %w", trace, err)
	}
	if len(resp.Items) == 0 {
		return Entry{}, ErrNoEntries
	}
	return unmarshalEntry(resp.Items[0])
}

func num(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func marshalEntry(e Entry) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"trace":       str(e.Trace),
		"started_at":  num(e.StartedAt.UnixNano()),
		"run_id":      str(e.RunID),
		"filter":      str(e.Filter),
		"candidates":  num(int64(e.Candidates)),
		"accepted":    num(int64(e.Accepted)),
		"exhausted":   num(int64(e.Exhausted)),
		"duration_ns": num(int64(e.Duration)),
	}
}

func getS(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("ledger: invalid %s attribute", name)
	}
	return v.Value, nil
}

func getN(item map[string]types.AttributeValue, name string) (int64, error) {
	v, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("ledger: invalid %s attribute", name)
	}
	n, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ledger: parse %s: %w", name, err)
	}
	return n, nil
}

func unmarshalEntry(item map[string]types.AttributeValue) (Entry, error) {
	var (
		e    Entry
		err  error
		nums [5]int64
	)
	if e.Trace, err = getS(item, "trace"); err != nil {
		return Entry{}, err
	}
	if e.RunID, err = getS(item, "run_id"); err != nil {
		return Entry{}, err
	}
	if e.Filter, err = getS(item, "filter"); err != nil {
		return Entry{}, err
	}
	for i, name := range []string{"started_at", "candidates", "accepted", "exhausted", "duration_ns"} {
		if nums[i], err = getN(item, name); err != nil {
			return Entry{}, err
		}
	}
	e.StartedAt = time.Unix(0, nums[0]).UTC()
	e.Candidates = int(nums[1])
	e.Accepted = int(nums[2])
	e.Exhausted = int(nums[3])
	e.Duration = time.Duration(nums[4])
	return e, nil
}
