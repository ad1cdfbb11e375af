package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"econtent/types"
)

// ArchiverConfig contains minimal configuration for the S3 archiver.
// Values fall back to the standard AWS config/credential chain when empty.
type ArchiverConfig struct {
	Bucket string
	Prefix string
	// Region to use for requests, e.g. "eu-central-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (S3-compatible providers).
	UsePathStyle bool
}

// Archiver uploads completed post records to S3 so generated content
// survives output-store rotation.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchiver creates an S3 archiver using the default AWS configuration
// chain with optional overrides from cfg.
func NewArchiver(ctx context.Context, cfg ArchiverConfig) (*Archiver, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Archiver{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ArchiveRecord uploads one completed record as JSON under
// <prefix>posts/<date>/<news_id>.json
func (a *Archiver) ArchiveRecord(ctx context.Context, rec *types.OutputRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	day := time.Now().UTC().Format("2006-01-02")
	if t, err := time.Parse(time.RFC3339, rec.Timestamp); err == nil {
		day = t.UTC().Format("2006-01-02")
	}
	key := fmt.Sprintf("%sposts/%s/%s.json", a.prefix, day, rec.Task.NewsID)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

// Exists returns true if an object exists at key; false on 404/NotFound.
func (a *Archiver) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}
