package reference_test

import (
	"context"
	"errors"
	"testing"

	"utimes-go/internal/config"
	"utimes-go/internal/reference"
	"utimes-go/internal/stamp"
	"utimes-go/internal/testutil"
)

func TestFileResolver(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.AddFile("/ref", stamp.All(42))
	backend.AddSymlink("/link", "/ref", stamp.All(7))
	r := reference.NewFileResolver(backend)

	t.Run("reads the file", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), "/ref")
		if err != nil || !got.Equal(stamp.All(42)) {
			t.Errorf("Resolve() = %v, %v", got, err)
		}
	})

	t.Run("follows links", func(t *testing.T) {
		got, err := r.Resolve(context.Background(), "/link")
		if err != nil || !got.Equal(stamp.All(42)) {
			t.Errorf("Resolve() = %v, %v", got, err)
		}
	})

	t.Run("missing reference", func(t *testing.T) {
		if _, err := r.Resolve(context.Background(), "/nope"); !errors.Is(err, stamp.ErrPathNotFound) {
			t.Errorf("Resolve() error = %v, want PathNotFound", err)
		}
	})

	t.Run("empty reference", func(t *testing.T) {
		if _, err := r.Resolve(context.Background(), ""); !errors.Is(err, stamp.ErrInvalidSpecification) {
			t.Errorf("Resolve() error = %v, want InvalidSpecification", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.Resolve(ctx, "/ref"); !errors.Is(err, context.Canceled) {
			t.Errorf("Resolve() error = %v, want context.Canceled", err)
		}
	})
}

func TestMux(t *testing.T) {
	files := reference.NewMemoryResolver()
	files.Put("/local", stamp.All(1))
	remote := reference.NewMemoryResolver()
	remote.Put("mem://bucket/obj", stamp.All(2))

	mux := reference.NewMux(files)
	mux.Handle("MEM", remote)

	tests := []struct {
		ref     string
		want    stamp.Spec
		wantErr error
	}{
		{ref: "/local", want: stamp.All(1)},
		{ref: "mem://bucket/obj", want: stamp.All(2)},
		{ref: "mem://bucket/missing", wantErr: stamp.ErrPathNotFound},
		{ref: "ftp://host/file", wantErr: stamp.ErrUnsupportedOperation},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := mux.Resolve(context.Background(), tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || !got.Equal(tt.want) {
				t.Errorf("Resolve() = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestNewResolverFromConfig(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.AddFile("/ref", stamp.All(3))
	r := reference.NewResolverFromConfig(config.ReferenceConfig{}, backend, nil)

	got, err := r.Resolve(context.Background(), "/ref")
	if err != nil || !got.Equal(stamp.All(3)) {
		t.Errorf("Resolve(/ref) = %v, %v", got, err)
	}
	if _, err := r.Resolve(context.Background(), "s3://bucket"); !errors.Is(err, stamp.ErrInvalidSpecification) {
		t.Errorf("Resolve(s3://bucket) error = %v, want InvalidSpecification", err)
	}
}
