package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"clipforge/script"
)

// S3Publisher uploads the final artifact to an S3 bucket, keyed by video
// name and upload time.
type S3Publisher struct {
	client *s3.Client
	bucket string
}

func NewS3Publisher(ctx context.Context, bucket, region string) (*S3Publisher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Publisher{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

func (p *S3Publisher) Publish(ctx context.Context, videoPath string, sc *script.Script) error {
	file, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", videoPath, err)
	}
	defer file.Close()

	key := fmt.Sprintf("videos/%s/%s_%s", sc.SafeName(), time.Now().Format("20060102_150405"), filepath.Base(videoPath))

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("upload to s3://%s/%s: %w", p.bucket, key, err)
	}

	log.Info().Str("bucket", p.bucket).Str("key", key).Msg("uploaded to s3")
	return nil
}
