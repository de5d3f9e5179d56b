package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cms-cvs-history/trajfilter/blobstore"
	"github.com/cms-cvs-history/trajfilter/blobstore/minio"
	"github.com/cms-cvs-history/trajfilter/blobstore/s3"
	"github.com/cms-cvs-history/trajfilter/config"
	"github.com/cms-cvs-history/trajfilter/ledger"
)

func openStore(ctx context.Context, c config.StoreConfig) (blobstore.Store, error) {
	switch c.Kind {
	case config.StoreLocal:
		return blobstore.NewLocalStore(c.Root), nil
	case config.StoreMemory:
		return blobstore.NewMemoryStore(), nil
	case config.StoreS3:
		opts := []s3.Option{s3.WithPrefix(c.Prefix)}
		if c.Region != "" {
			opts = append(opts, s3.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.Endpoint))
		}
		return s3.New(ctx, c.Bucket, opts...)
	case config.StoreMinIO:
		client, err := minio.Dial(minio.Options{
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			Region:    c.Region,
			Secure:    c.Secure,
		})
		if err != nil {
			return nil, err
		}
		return minio.NewStore(client, c.Bucket, c.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", c.Kind)
	}
}

func openLedger(ctx context.Context, c config.LedgerConfig) (ledger.Ledger, error) {
	switch c.Kind {
	case config.LedgerNone, "":
		return nil, nil
	case config.LedgerMemory:
		return ledger.NewMemoryLedger(), nil
	case config.LedgerDynamoDB:
		var opts []func(*awsconfig.LoadOptions) error
		if c.Region != "" {
			opts = append(opts, awsconfig.WithRegion(c.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return ledger.NewDynamoLedger(dynamodb.NewFromConfig(cfg), c.Table), nil
	default:
		return nil, fmt.Errorf("unknown ledger kind %q", c.Kind)
	}
}
