package reference

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"utimes-go/internal/config"
	"utimes-go/internal/stamp"
)

// regionProbe is the region used to ask S3 where a bucket lives.
const regionProbe = "us-east-1"

// HeadObjectAPI is the part of the S3 client the resolver needs.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Resolver reads timestamps from S3 object metadata. User metadata keys
// atime, mtime and btime win; otherwise LastModified sets atime and mtime.
//
// The AWS client is built on first use, so configuring S3 costs nothing
// when no s3:// reference is ever resolved.
type S3Resolver struct {
	cfg        config.S3Config
	normalizer *stamp.Normalizer

	mu      sync.Mutex
	awsCfg  *aws.Config
	clients map[string]HeadObjectAPI // by region
	regions map[string]string        // by bucket
	fixed   HeadObjectAPI
}

// NewS3Resolver creates a resolver that builds its client from cfg and the
// shared AWS configuration.
func NewS3Resolver(cfg config.S3Config, normalizer *stamp.Normalizer) *S3Resolver {
	if normalizer == nil {
		normalizer = stamp.NewNormalizer(stamp.RealClock{})
	}
	return &S3Resolver{
		cfg:        cfg,
		normalizer: normalizer,
		clients:    make(map[string]HeadObjectAPI),
		regions:    make(map[string]string),
	}
}

// NewS3ResolverWithClient creates a resolver that always uses client.
func NewS3ResolverWithClient(client HeadObjectAPI, normalizer *stamp.Normalizer) *S3Resolver {
	r := NewS3Resolver(config.S3Config{}, normalizer)
	r.fixed = client
	return r
}

// ParseS3URI splits "s3://bucket/key" into bucket and key.
func ParseS3URI(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("parsing %q: %w", ref, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("%q is not an s3:// reference", ref)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", ref)
	}
	return u.Host, key, nil
}

func (r *S3Resolver) Resolve(ctx context.Context, ref string) (stamp.Spec, error) {
	bucket, key, err := ParseS3URI(ref)
	if err != nil {
		return stamp.Spec{}, &stamp.Error{Kind: stamp.KindInvalidSpecification, Op: "reference", Path: ref, Err: err}
	}

	client, err := r.clientFor(ctx, bucket)
	if err != nil {
		return stamp.Spec{}, classifyS3(ref, err)
	}
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return stamp.Spec{}, classifyS3(ref, err)
	}
	return r.specFrom(ref, out)
}

func (r *S3Resolver) specFrom(ref string, out *s3.HeadObjectOutput) (stamp.Spec, error) {
	var spec stamp.Spec
	if out.LastModified != nil {
		ms := out.LastModified.UnixMilli()
		spec = spec.With(stamp.Atime, ms).With(stamp.Mtime, ms)
	}
	for _, f := range stamp.AllFields {
		v, ok := lookupMetadata(out.Metadata, f.String())
		if !ok {
			continue
		}
		ms, err := r.normalizer.ParseInstant(v)
		if err != nil {
			return stamp.Spec{}, &stamp.Error{Kind: stamp.KindInvalidSpecification, Op: "reference", Path: ref, Err: err}
		}
		spec = spec.With(f, ms)
	}
	if spec.Empty() {
		return stamp.Spec{}, &stamp.Error{Kind: stamp.KindIOFailure, Op: "reference", Path: ref, Err: errors.New("object carries no timestamps")}
	}
	return spec, nil
}

// lookupMetadata matches keys case-insensitively; S3 lowercases user
// metadata but S3-compatible stores do not always.
func lookupMetadata(md map[string]string, name string) (string, bool) {
	if v, ok := md[name]; ok {
		return v, true
	}
	for k, v := range md {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func (r *S3Resolver) clientFor(ctx context.Context, bucket string) (HeadObjectAPI, error) {
	if r.fixed != nil {
		return r.fixed, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.awsCfg == nil {
		cfg, err := r.loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		r.awsCfg = &cfg
	}

	region := r.awsCfg.Region
	if region == "" {
		var ok bool
		if region, ok = r.regions[bucket]; !ok {
			probe := s3.NewFromConfig(*r.awsCfg, r.clientOptions(regionProbe))
			found, err := manager.GetBucketRegion(ctx, probe, bucket)
			if err != nil {
				return nil, fmt.Errorf("looking up region of bucket %s: %w", bucket, err)
			}
			r.regions[bucket] = found
			region = found
		}
	}

	if c, ok := r.clients[region]; ok {
		return c, nil
	}
	c := s3.NewFromConfig(*r.awsCfg, r.clientOptions(region))
	r.clients[region] = c
	return c, nil
}

func (r *S3Resolver) loadAWSConfig(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if r.cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(r.cfg.Profile))
	}
	if r.cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(r.cfg.Region))
	}
	if r.cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(r.cfg.AccessKeyID, r.cfg.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	if r.cfg.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(r.cfg.Endpoint)
	}
	return cfg, nil
}

func (r *S3Resolver) clientOptions(region string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Region = region
		o.UsePathStyle = r.cfg.UsePathStyle
	}
}

func classifyS3(ref string, err error) error {
	kind := stamp.KindIOFailure
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			kind = stamp.KindPathNotFound
		case "Forbidden", "AccessDenied":
			kind = stamp.KindPermissionDenied
		}
	}
	return &stamp.Error{Kind: kind, Op: "HeadObject", Path: ref, Err: err}
}

var _ Resolver = (*S3Resolver)(nil)
