package downloads

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile
)

// ObjectPutter is the part of the S3 client the sink uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client ObjectPutter
	bucket string
	prefix string
}

func S3SinkFactory(ctx context.Context, settings SinkSettings) (Sink, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("s3 sink requires a bucket")
	}

	cfg, err := LoadAWSConfig(ctx, settings.AWSProfile)
	if err != nil {
		return nil, err
	}

	return NewS3Sink(s3.NewFromConfig(*cfg), settings.Bucket, settings.Prefix), nil
}

func NewS3Sink(client ObjectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func LoadAWSConfig(ctx context.Context, profile string) (*aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &awsCfg, nil
}

func (s *S3Sink) Save(ctx context.Context, artifact *Artifact) (string, error) {
	key := path.Join(s.prefix, SafeFilename(artifact.Filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(artifact.Data),
		ContentType:   aws.String(artifact.ContentType),
		ContentLength: aws.Int64(int64(len(artifact.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", artifact.Filename, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	zerolog.Ctx(ctx).Info().
		Str("kind", string(artifact.Kind)).
		Str("location", location).
		Msg("download uploaded")

	return location, nil
}
