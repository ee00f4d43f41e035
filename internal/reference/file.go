package reference

import (
	"context"
	"errors"

	"utimes-go/internal/stamp"
)

// FileResolver reads the timestamps of a local file, following symlinks.
type FileResolver struct {
	inspector stamp.Inspector
}

// NewFileResolver creates a FileResolver over inspector.
func NewFileResolver(inspector stamp.Inspector) *FileResolver {
	return &FileResolver{inspector: inspector}
}

func (f *FileResolver) Resolve(ctx context.Context, ref string) (stamp.Spec, error) {
	if err := ctx.Err(); err != nil {
		return stamp.Spec{}, err
	}
	if ref == "" {
		return stamp.Spec{}, &stamp.Error{Kind: stamp.KindInvalidSpecification, Op: "reference", Err: errors.New("empty reference")}
	}
	return f.inspector.Stat(ref, stamp.FollowSymlinks)
}

var _ Resolver = (*FileResolver)(nil)
