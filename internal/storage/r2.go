package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/lazy"
	"github.com/muhammadolammi/hireflow/internal/logger"
)

const (
	metaOriginalName  = "original-name"
	defaultPresignTTL = 7 * 24 * time.Hour
	keyPrefix         = "resumes/"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the Cloudflare endpoint derived from AccountID.
	Endpoint string
	// PublicBaseURL, when set, is joined with the object key to build share URLs.
	PublicBaseURL string
	PublicRead    bool
	PresignTTL    time.Duration
}

// Validate reports missing credentials or bucket.
func (c R2Config) Validate() error {
	var missing []string
	if c.AccountID == "" && c.Endpoint == "" {
		missing = append(missing, "account id or endpoint")
	}
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("r2 config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c R2Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// R2Store is a DocumentStore backed by Cloudflare R2 through the S3 API.
type R2Store struct {
	cfg    R2Config
	client *lazy.Value[*s3.Client]
	logger *zap.Logger
}

// NewR2Store validates cfg; the S3 client itself is built on first use.
func NewR2Store(cfg R2Config, log *zap.Logger) (*R2Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = defaultPresignTTL
	}

	s := &R2Store{cfg: cfg, logger: logger.OrNop(log)}
	s.client = lazy.New(s.newClient)
	return s, nil
}

func (s *R2Store) newClient(ctx context.Context) (*s3.Client, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	s.logger.Debug("r2 client initialised", zap.String("bucket", s.cfg.Bucket))
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.endpoint())
		o.UsePathStyle = s.cfg.Endpoint != ""
		// R2 rejects the SDK's default trailing checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}), nil
}

// Store uploads data under a fresh key and returns its reference and a
// shareable URL.
func (s *R2Store) Store(ctx context.Context, data []byte, name, mimeType string) (Object, error) {
	client, err := s.client.Get(ctx)
	if err != nil {
		return Object{}, err
	}

	key := objectKey(name, mimeType)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{metaOriginalName: url.QueryEscape(name)},
	}
	if s.cfg.PublicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return Object{}, fmt.Errorf("failed to put object: %w", err)
	}

	obj := Object{Reference: key, SizeBytes: int64(len(data))}
	if s.cfg.PublicBaseURL != "" {
		obj.URL = strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
		return obj, nil
	}

	// No public URL from the put; read the object back and presign a link.
	obj.URL, obj.SizeBytes, err = s.shareURL(ctx, client, key)
	if err != nil {
		if delErr := s.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove object without share url", zap.String("key", key), zap.Error(delErr))
		}
		return Object{}, err
	}
	return obj, nil
}

func (s *R2Store) shareURL(ctx context.Context, client *s3.Client, key string) (string, int64, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to read back object: %w", err)
	}

	presigned, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.cfg.PresignTTL))
	if err != nil {
		return "", 0, fmt.Errorf("failed to presign object url: %w", err)
	}
	return presigned.URL, aws.ToInt64(head.ContentLength), nil
}

// Fetch downloads the document stored under reference.
func (s *R2Store) Fetch(ctx context.Context, reference string) (Document, error) {
	client, err := s.client.Get(ctx)
	if err != nil {
		return Document{}, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(reference),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, reference)
		}
		return Document{}, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return Document{}, fmt.Errorf("failed to read object body: %w", err)
	}

	name := path.Base(reference)
	if raw, ok := out.Metadata[metaOriginalName]; ok {
		if decoded, err := url.QueryUnescape(raw); err == nil && decoded != "" {
			name = decoded
		}
	}

	return Document{
		Bytes:     buf.Bytes(),
		MimeType:  aws.ToString(out.ContentType),
		Name:      name,
		SizeBytes: int64(buf.Len()),
	}, nil
}

// Delete removes the object stored under reference.
func (s *R2Store) Delete(ctx context.Context, reference string) error {
	client, err := s.client.Get(ctx)
	if err != nil {
		return err
	}

	if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(reference),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func objectKey(name, mimeType string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return keyPrefix + uuid.NewString() + ext
}
