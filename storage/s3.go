package storage

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Target struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

// NewS3Target uses the default AWS credential chain (env vars, shared
// credentials file, instance role).
func NewS3Target(bucket, region, prefix string) (*S3Target, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &S3Target{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (t *S3Target) Name() string {
	return "s3:" + t.bucket
}

func (t *S3Target) Save(name string, reader io.Reader) error {
	key := name
	if t.prefix != "" {
		key = t.prefix + "/" + name
	}
	mimeType := "text/csv"
	_, err := t.uploader.Upload(&s3manager.UploadInput{
		Bucket:      &t.bucket,
		Key:         &key,
		ContentType: &mimeType,
		Body:        reader,
	})
	return err
}
