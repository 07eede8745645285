package snapshot_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	vperrors "github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/snapshot"
)

// fakeS3 is an in-memory bucket that pages listings two keys at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	lists   int
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := start + 2
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	} else {
		end = len(keys)
	}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store_PrefixAndPaging(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := snapshot.NewS3Store(fake, "bucket", "team/")

	for _, k := range []string{"f/1.vpf", "f/2.vpf", "f/3.vpf", "f/4.vpf", "f/5.vpf"} {
		if err := store.Put(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if _, ok := fake.objects["team/f/1.vpf"]; !ok {
		t.Errorf("objects = %v, want keys under team/", fake.objects)
	}
	if ct := fake.types["team/f/1.vpf"]; ct != "application/vnd.vpatch.frame" {
		t.Errorf("content type = %q", ct)
	}

	keys, err := store.List(ctx, "f/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 5 || keys[0] != "f/1.vpf" || keys[4] != "f/5.vpf" {
		t.Errorf("List = %v", keys)
	}
	if fake.lists != 3 {
		t.Errorf("ListObjectsV2 calls = %d, want 3 pages", fake.lists)
	}
}

func TestS3Store_PutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = errors.New("access denied")
	store := snapshot.NewS3Store(fake, "bucket", "")

	err := store.Put(context.Background(), "a.vpf", []byte("x"))
	if !vperrors.HasCode(err, "E161") || !errors.Is(err, fake.failPut) {
		t.Errorf("err = %v, want E161 wrapping the client error", err)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	client := snapshot.NewS3Client(snapshot.S3ClientOptions{Endpoint: "http://localhost:9000", PathStyle: true})
	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", opts.Region)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" || !opts.UsePathStyle {
		t.Errorf("endpoint = %q pathStyle = %v", aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}

	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", creds)
	}
}
