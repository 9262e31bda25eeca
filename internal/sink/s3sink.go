package sink

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zeebo/xxh3"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
)

// UploadAPI is the slice of the S3 client used for uploads.
type UploadAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignAPI issues presigned GET URLs.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Sink publishes artifacts. Upload mode stores the artifact under a
// content-fingerprinted key and returns a presigned URL with a bounded
// expiry; inline mode hands the bytes straight back.
type S3Sink struct {
	upload  UploadAPI
	presign PresignAPI
	bucket  string
	ttl     time.Duration
}

// NewS3Sink wires an S3Sink. ttl bounds presigned URL validity; <=0 means
// one hour.
func NewS3Sink(upload UploadAPI, presign PresignAPI, bucket string, ttl time.Duration) *S3Sink {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &S3Sink{upload: upload, presign: presign, bucket: bucket, ttl: ttl}
}

func (s *S3Sink) Publish(ctx context.Context, a chart.Artifact, mode Mode) (Published, error) {
	if mode == ModeInline {
		return Published{Artifact: &a}, nil
	}

	key := objectKey(a)
	_, err := s.upload.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Bytes),
		ContentType: aws.String(a.ContentType),
	})
	if err != nil {
		return Published{}, fault.Wrap(fault.StoreUnavailable, err, "upload %s", key)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return Published{}, fault.Wrap(fault.StoreUnavailable, err, "presign %s", key)
	}

	log.Printf("sink: uploaded %s (%d bytes)", key, len(a.Bytes))
	return Published{URL: req.URL}, nil
}

// objectKey derives the storage key from the suggested filename plus a
// content fingerprint, so republishing a changed chart never serves a stale
// cached object for the same name.
func objectKey(a chart.Artifact) string {
	name := a.Filename
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name, ext = name[:i], name[i:]
	}
	return fmt.Sprintf("%s-%016x%s", name, xxh3.Hash(a.Bytes), ext)
}
