package assets

import (
	"fmt"

	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/vfs"
)

// Loader turns one source kind into one resource type. Implementations
// must confine their side effects to producing the value or an error:
// a loader must not push further requests or touch queues and stores.
// Cross-type dependencies are expressed as scheduler ordering between
// drain steps instead.
type Loader[T any] interface {
	Load(ctx *LoadContext, src Source) (T, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[T any] func(ctx *LoadContext, src Source) (T, error)

func (f LoaderFunc[T]) Load(ctx *LoadContext, src Source) (T, error) {
	return f(ctx, src)
}

// LoadContext is the narrow, read-only view a loader gets of the outside
// world. It resolves bytes and nothing else.
type LoadContext struct {
	fs *vfs.Filesystem
}

// NewLoadContext builds a context reading from fs. Drains build their
// own; this is for exercising loaders directly.
func NewLoadContext(fs *vfs.Filesystem) *LoadContext {
	return &LoadContext{fs: fs}
}

// ReadSource resolves the bytes behind a path or bytes source.
func (c *LoadContext) ReadSource(src Source) ([]byte, error) {
	switch s := src.(type) {
	case PathSource:
		if c.fs == nil {
			return nil, fmt.Errorf("load %s: no filesystem attached: %w", s.Describe(), core.ErrSourceNotFound)
		}
		return c.fs.Read(s.Path)
	case BytesSource:
		return s.Data, nil
	default:
		return nil, fmt.Errorf("source %s carries no bytes", src.Describe())
	}
}

// Exists reports whether a filesystem path resolves, for loaders that
// probe sidecar files (e.g. material definitions next to meshes).
func (c *LoadContext) Exists(path string) bool {
	return c.fs != nil && c.fs.Exists(path)
}

// NewDirectLoader returns the loader for direct sources: it unwraps the
// carried value, failing when the value is not a T.
func NewDirectLoader[T any]() Loader[T] {
	return LoaderFunc[T](func(_ *LoadContext, src Source) (T, error) {
		var zero T
		ds, ok := src.(DirectSource)
		if !ok {
			return zero, fmt.Errorf("direct loader got %s source", src.Kind())
		}
		v, ok := ds.Value.(T)
		if !ok {
			return zero, fmt.Errorf("direct value is %T, want %T: %w", ds.Value, zero, core.ErrDecodeFailed)
		}
		return v, nil
	})
}
