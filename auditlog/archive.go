package auditlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"marketflow/config"
	"marketflow/types"
)

// Archive mirrors audit records to S3 for long-term retention. All methods
// are nil-safe so an unconfigured archive is a silent no-op.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchiveFromEnv builds an archive when AUDIT_ARCHIVE_BUCKET is set,
// using the standard AWS config/credential chain with optional region and
// profile overrides. Returns nil when unconfigured or when the chain fails.
func NewArchiveFromEnv(ctx context.Context) *Archive {
	bucket := os.Getenv("AUDIT_ARCHIVE_BUCKET")
	if bucket == "" {
		log.Println("S3 not configured; skipping audit archive uploads")
		return nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv("AUDIT_ARCHIVE_REGION"); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile := os.Getenv("AWS_PROFILE"); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Printf("Warning: failed to load AWS config, audit archive disabled: %v", err)
		return nil
	}

	return &Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		prefix: config.GetEnvOrDefault("AUDIT_ARCHIVE_PREFIX", "activations"),
	}
}

// NewArchive wires an explicit client, used by tests.
func NewArchive(client *s3.Client, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Upload stores one record under <prefix>/<entry_id>/<activation_id>.json.
func (a *Archive) Upload(ctx context.Context, result *types.ActivationResult) error {
	if a == nil {
		return nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s/%s.json", a.prefix, result.EntryID, result.ActivationID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	return err
}
