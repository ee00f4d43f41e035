package reference

import (
	"utimes-go/internal/config"
	"utimes-go/internal/stamp"
)

// NewResolverFromConfig builds the resolver used by the CLI: plain paths are
// read with inspector, s3:// references through S3.
func NewResolverFromConfig(cfg config.ReferenceConfig, inspector stamp.Inspector, normalizer *stamp.Normalizer) *Mux {
	mux := NewMux(NewFileResolver(inspector))
	mux.Handle("s3", NewS3Resolver(cfg.S3, normalizer))
	return mux
}
