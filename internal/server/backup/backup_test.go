package backup

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	data []byte
	err  error
}

func (f fakeExporter) Export(context.Context) ([]byte, error) { return f.data, f.err }

type putRecorder struct {
	mu   sync.Mutex
	keys []string
	body []string
	err  error
}

func (r *putRecorder) put(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, _ := io.ReadAll(in.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, aws.ToString(in.Key))
	r.body = append(r.body, string(b))
	return &s3.PutObjectOutput{}, nil
}

func (r *putRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func stubS3(t *testing.T, rec *putRecorder) *string {
	t.Helper()

	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var endpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		endpoint = aws.ToString(opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	putObject = rec.put
	return &endpoint
}

var settings = Settings{
	AccessKey:    "minioadmin",
	SecretKey:    "minioadmin",
	Bucket:       "vignaraja",
	Region:       "us-east-1",
	BaseEndpoint: "http://127.0.0.1:9000",
}

func TestSnapshot_UploadsExport(t *testing.T) {
	rec := &putRecorder{}
	endpoint := stubS3(t, rec)

	b, err := New(context.Background(), settings, fakeExporter{data: []byte(`{"appData":{}}`)}, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", *endpoint)

	b.now = func() time.Time { return time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC) }

	key, err := b.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^snapshots/2026/9/14/[0-9a-f-]{36}\.json$`), key)
	assert.Equal(t, []string{`{"appData":{}}`}, rec.body)
}

func TestSnapshot_Errors(t *testing.T) {
	rec := &putRecorder{}
	stubS3(t, rec)

	b, err := New(context.Background(), settings, fakeExporter{err: errors.New("closed")}, logging.Discard())
	require.NoError(t, err)
	_, err = b.Snapshot(context.Background())
	assert.ErrorContains(t, err, "export")

	rec.err = errors.New("bucket missing")
	b, err = New(context.Background(), settings, fakeExporter{data: []byte(`{}`)}, logging.Discard())
	require.NoError(t, err)
	_, err = b.Snapshot(context.Background())
	assert.ErrorContains(t, err, "bucket missing")
}

func TestNew_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := New(context.Background(), settings, fakeExporter{}, logging.Discard())
	require.EqualError(t, err, "load-fail")
}

func TestRun_SnapshotsUntilCancelled(t *testing.T) {
	rec := &putRecorder{}
	stubS3(t, rec)

	b, err := New(context.Background(), settings, fakeExporter{data: []byte(`{}`)}, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return rec.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSnapshotKey_Unique(t *testing.T) {
	d := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, SnapshotKey(d), SnapshotKey(d))
}
