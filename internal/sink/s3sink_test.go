package sink

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
)

// fakeStore records the last upload and answers presign requests with a
// deterministic URL.
type fakeStore struct {
	putErr     error
	presignErr error

	bucket      string
	key         string
	contentType string
	body        []byte
}

func (f *fakeStore) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.bucket = *in.Bucket
	f.key = *in.Key
	f.contentType = *in.ContentType
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeStore) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &v4.PresignedHTTPRequest{URL: "https://store.example/" + *in.Bucket + "/" + *in.Key + "?sig=ok"}, nil
}

func svgArtifact() chart.Artifact {
	return chart.Artifact{
		Bytes:       []byte("<svg>bmi</svg>"),
		ContentType: "image/svg+xml",
		Filename:    "bmiVsHeart.svg",
	}
}

// TestPublishUpload checks upload mode stores the exact artifact bytes under
// a fingerprinted key and returns the presigned URL for that key.
func TestPublishUpload(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := NewS3Sink(store, store, "charts", 0)

	pub, err := s.Publish(context.Background(), svgArtifact(), ModeUpload)
	require.NoError(t, err)

	assert.False(t, pub.Inline())
	assert.Equal(t, "charts", store.bucket)
	assert.Equal(t, "image/svg+xml", store.contentType)
	assert.Equal(t, []byte("<svg>bmi</svg>"), store.body)
	assert.Regexp(t, regexp.MustCompile(`^bmiVsHeart-[0-9a-f]{16}\.svg$`), store.key)
	assert.Equal(t, "https://store.example/charts/"+store.key+"?sig=ok", pub.URL)
}

// TestPublishUploadStableKey checks the object key is a pure function of the
// artifact, and changes when the content changes.
func TestPublishUploadStableKey(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := NewS3Sink(store, store, "charts", 0)

	_, err := s.Publish(context.Background(), svgArtifact(), ModeUpload)
	require.NoError(t, err)
	first := store.key

	_, err = s.Publish(context.Background(), svgArtifact(), ModeUpload)
	require.NoError(t, err)
	assert.Equal(t, first, store.key, "same content should reuse the key")

	changed := svgArtifact()
	changed.Bytes = []byte("<svg>bmi v2</svg>")
	_, err = s.Publish(context.Background(), changed, ModeUpload)
	require.NoError(t, err)
	assert.NotEqual(t, first, store.key, "changed content should get a new key")
}

// TestPublishInline checks inline mode never touches the store.
func TestPublishInline(t *testing.T) {
	t.Parallel()

	store := &fakeStore{putErr: errors.New("should not be called")}
	s := NewS3Sink(store, store, "charts", 0)

	pub, err := s.Publish(context.Background(), svgArtifact(), ModeInline)
	require.NoError(t, err)
	require.True(t, pub.Inline())
	assert.Empty(t, pub.URL)
	assert.Equal(t, []byte("<svg>bmi</svg>"), pub.Artifact.Bytes)
	assert.Equal(t, "bmiVsHeart.svg", pub.Artifact.Filename)
}

// TestPublishStoreFailures maps upload and presign failures onto
// StoreUnavailable.
func TestPublishStoreFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		store *fakeStore
	}{
		{"put_fails", &fakeStore{putErr: errors.New("access denied")}},
		{"presign_fails", &fakeStore{presignErr: errors.New("no credentials")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			s := NewS3Sink(c.store, c.store, "charts", 0)
			_, err := s.Publish(context.Background(), svgArtifact(), ModeUpload)
			require.Error(t, err)
			assert.Equal(t, fault.StoreUnavailable, fault.KindOf(err))
		})
	}
}
