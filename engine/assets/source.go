package assets

import "fmt"

// SourceKind tags where a load pulls its input from. Loaders are
// registered per (resource type, kind) pair and the pipeline dispatches
// on the kind of each request.
type SourceKind uint8

const (
	SourceKindNone SourceKind = iota
	// SourceKindPath reads bytes from the virtual filesystem.
	SourceKindPath
	// SourceKindBytes loads from an in-memory buffer.
	SourceKindBytes
	// SourceKindDirect wraps an already-constructed value.
	SourceKindDirect
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindPath:
		return "path"
	case SourceKindBytes:
		return "bytes"
	case SourceKindDirect:
		return "direct"
	default:
		return "none"
	}
}

// Source describes where a load's input comes from. New kinds can be
// added without touching loaders that do not use them.
type Source interface {
	Kind() SourceKind
	// Describe returns a short human-readable origin for logs and
	// failure records.
	Describe() string
}

// PathSource loads from a virtual filesystem path.
type PathSource struct {
	Path string
}

func (s PathSource) Kind() SourceKind { return SourceKindPath }
func (s PathSource) Describe() string { return "path:" + s.Path }

// BytesSource loads from a raw buffer. Name is only used for logs.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Kind() SourceKind { return SourceKindBytes }
func (s BytesSource) Describe() string {
	return fmt.Sprintf("bytes:%s(%d)", s.Name, len(s.Data))
}

// DirectSource carries an already-constructed value through the queue so
// it gets an identity and a store entry like any other load.
type DirectSource struct {
	Value any
}

func (s DirectSource) Kind() SourceKind { return SourceKindDirect }
func (s DirectSource) Describe() string { return fmt.Sprintf("direct:%T", s.Value) }

// FromPath builds a path source.
func FromPath(path string) Source {
	return PathSource{Path: path}
}

// FromBytes builds an in-memory source.
func FromBytes(name string, data []byte) Source {
	return BytesSource{Name: name, Data: data}
}

// Direct wraps a ready value as a source.
func Direct(value any) Source {
	return DirectSource{Value: value}
}
