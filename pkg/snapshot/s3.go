package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// frameContentType is the content type of stored frames.
const frameContentType = "application/vnd.vpatch.frame"

// S3API is the subset of the S3 client S3Store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Store stores frames as objects in an S3 bucket.
//
// Example usage:
//
//	client := snapshot.NewS3Client(snapshot.S3ClientOptions{Region: "eu-west-1"})
//	store := snapshot.NewS3Store(client, "my-bucket", "vpatch/")
//	rec := snapshot.NewRecorder(store)
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates an S3Store. prefix is prepended to every key and
// stripped from listed keys.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; without them requests are
// anonymous. A custom endpoint and path-style addressing serve
// S3-compatible stores such as MinIO.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	o := s3.Options{
		Region:       region,
		UsePathStyle: opts.PathStyle,
		Credentials:  envCredentials(),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	}))
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(frameContentType),
	})
	if err != nil {
		return storeError("put", key, err)
	}
	return nil
}

// Get downloads the object under key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(key)
		}
		return nil, storeError("get", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storeError("get", key, err)
	}
	return data, nil
}

// List pages through the objects under prefix.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("list", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			keys = append(keys, strings.TrimPrefix(*obj.Key, s.prefix))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
