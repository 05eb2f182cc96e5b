// Package vfs provides the virtual filesystem the asset pipeline reads
// from: an ordered overlay of directory roots and pak archives behind a
// single Read contract. The first root added wins on name conflicts.
package vfs

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
)

// package errors
var (
	ErrPakFormat = errors.New("corrupted or not a pak archive")
	ErrNotFound  = errors.New("file not found in archive")
)

const (
	pakMagic         = "VPK\x00"
	magicLength      = 4
	headerSizeLength = 8
)

// IndexEntry is info for one file in the archive index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the pak file header. Entries are individually lz4-compressed
// so a single file can be read and decompressed without touching the
// rest of the archive.
type Header struct {
	BuildID     string
	Author      string
	DateCreated int64
	Version     int64
	Index       []IndexEntry
}

// Pak is a read-only handle on a pak archive. Safe for concurrent reads.
type Pak struct {
	reader io.ReaderAt
	header Header
	index  map[string]IndexEntry
	offset int64 // where entry data begins
}

// OpenPak reads the archive header from r and validates the format.
func OpenPak(r io.ReaderAt) (*Pak, error) {
	magic := make([]byte, magicLength)
	if n, err := r.ReadAt(magic, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPakFormat, err)
	} else if n < magicLength || !bytes.Equal(magic, []byte(pakMagic)) {
		return nil, ErrPakFormat
	}

	sizeBytes := make([]byte, headerSizeLength)
	if n, err := r.ReadAt(sizeBytes, magicLength); err != nil || n < headerSizeLength {
		return nil, ErrPakFormat
	}
	headerSize := int64(binary.LittleEndian.Uint64(sizeBytes))
	if headerSize <= 0 {
		return nil, ErrPakFormat
	}

	headerBytes := make([]byte, headerSize)
	if n, err := r.ReadAt(headerBytes, magicLength+headerSizeLength); err != nil || int64(n) < headerSize {
		return nil, ErrPakFormat
	}

	var header Header
	if err := gob.NewDecoder(bytes.NewReader(headerBytes)).Decode(&header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPakFormat, err)
	}

	index := make(map[string]IndexEntry, len(header.Index))
	for _, e := range header.Index {
		index[e.Name] = e
	}

	return &Pak{
		reader: r,
		header: header,
		index:  index,
		offset: magicLength + headerSizeLength + headerSize,
	}, nil
}

// BuildID returns the archive's build identifier.
func (p *Pak) BuildID() string {
	return p.header.BuildID
}

// Names lists the files in the archive, sorted.
func (p *Pak) Names() []string {
	names := make([]string, 0, len(p.index))
	for name := range p.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether the archive holds the named file.
func (p *Pak) Contains(name string) bool {
	_, ok := p.index[name]
	return ok
}

// ReadAll returns the decompressed contents of the named file.
func (p *Pak) ReadAll(name string) ([]byte, error) {
	entry, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	compressed := make([]byte, entry.CompressedSize)
	if _, err := p.reader.ReadAt(compressed, p.offset+entry.Offset); err != nil {
		return nil, err
	}

	out := make([]byte, 0, entry.Size)
	buf := bytes.NewBuffer(out)
	zr := lz4.NewReader(bytes.NewReader(compressed))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPakFormat, err)
	}
	return buf.Bytes(), nil
}

type pakEntry struct {
	name       string
	size       int64
	compressed []byte
}

// Builder creates pak archives. Archives are versioned and cannot be
// appended to once written. Add compresses eagerly, so it is safe to call
// from several goroutines while building.
type Builder struct {
	header Header

	mutex sync.Mutex
	files []pakEntry
}

// NewBuilder creates a Builder. The Index in the header is overwritten
// on write; the BuildID is assigned here.
func NewBuilder(header Header) *Builder {
	header.BuildID = uuid.New().String()
	if header.DateCreated == 0 {
		header.DateCreated = time.Now().Unix()
	}
	return &Builder{header: header}
}

// Add appends data to the builder with a given name. Blocks until lz4
// finishes compression.
func (b *Builder) Add(name string, data []byte) error {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, pakEntry{
		name:       name,
		size:       int64(len(data)),
		compressed: buf.Bytes(),
	})
	return nil
}

// WriteTo bundles everything added so far into a pak archive on w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	// Entries are laid out in name order so builds are reproducible
	// regardless of Add interleaving.
	sort.Slice(b.files, func(i, j int) bool { return b.files[i].name < b.files[j].name })

	header := b.header
	header.Index = nil
	var offset int64
	for _, f := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           f.name,
			Offset:         offset,
			Size:           f.size,
			CompressedSize: int64(len(f.compressed)),
		})
		offset += int64(len(f.compressed))
	}

	var headerBuf bytes.Buffer
	if err := gob.NewEncoder(&headerBuf).Encode(&header); err != nil {
		return 0, err
	}

	var written int64
	n, err := w.Write([]byte(pakMagic))
	written += int64(n)
	if err != nil {
		return written, err
	}

	sizeBytes := make([]byte, headerSizeLength)
	binary.LittleEndian.PutUint64(sizeBytes, uint64(headerBuf.Len()))
	n, err = w.Write(sizeBytes)
	written += int64(n)
	if err != nil {
		return written, err
	}

	n, err = w.Write(headerBuf.Bytes())
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, f := range b.files {
		n, err = w.Write(f.compressed)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
