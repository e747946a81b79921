// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pierrec/lz4"
)

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	m := make([]byte, MagicLength)
	if err := readAt(r, m, 0); err != nil {
		return nil, err
	}
	if !bytes.Equal(m, magic[:]) {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, HeaderSizeNumberLength)
	if err := readAt(r, headerSizeBytes, MagicLength); err != nil {
		return nil, err
	}

	headerSize, err := binaryToint64(headerSizeBytes)
	if err != nil || headerSize <= 0 || headerSize > maxHeaderSize {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if err := readAt(r, headerBytes, MagicLength+HeaderSizeNumberLength); err != nil {
		return nil, err
	}

	ar := Archive{
		reader: r,
		base:   MagicLength + HeaderSizeNumberLength + headerSize,
		index:  make(map[string]IndexEntry),
	}
	if err := gobDecode(&ar.header, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}
	dataSize := ar.header.DataSize()
	if size, ok := readerSize(r); ok && (dataSize < 0 || dataSize > size-ar.base) {
		return nil, fmt.Errorf("%w: index claims %d bytes of data", ErrFileFormat, dataSize)
	}
	for _, e := range ar.header.Index {
		if err := checkEntry(e, dataSize); err != nil {
			return nil, err
		}
		ar.index[e.Name] = e
	}
	return &ar, nil
}

// maxCompressionRatio bounds the decompressed size an lz4 frame
// of a given compressed size can claim.
const maxCompressionRatio = 255

func checkEntry(e IndexEntry, dataSize int64) error {
	switch {
	case e.Offset < 0 || e.Size < 0 || e.CompressedSize < 0:
	case e.Offset > dataSize || e.CompressedSize > dataSize-e.Offset:
	case e.Size/maxCompressionRatio > e.CompressedSize:
	default:
		return nil
	}
	return fmt.Errorf("%w: bad index entry %q", ErrFileFormat, e.Name)
}

// readerSize reports the length of readers that know it,
// like bytes.Reader and mmap.ReaderAt.
func readerSize(r io.ReaderAt) (int64, bool) {
	switch sized := r.(type) {
	case interface{ Size() int64 }:
		return sized.Size(), true
	case interface{ Len() int }:
		return int64(sized.Len()), true
	}
	return 0, false
}

func readAt(r io.ReaderAt, p []byte, off int64) error {
	num, err := r.ReadAt(p, off)
	if num == len(p) {
		return nil
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrFileFormat
	}
	return err
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader io.ReaderAt
	closer io.Closer
	header Header
	base   int64
	index  map[string]IndexEntry
}

// Header returns the archive header, with the file index
func (a *Archive) Header() Header {
	return a.header
}

// Names returns the sorted names of the files in the Archive
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.index))
	for name := range a.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry returns the index entry of a file
func (a *Archive) Entry(name string) (IndexEntry, bool) {
	e, ok := a.index[name]
	return e, ok
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.entry.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileFormat, name, err)
	}
	return data, nil
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	e, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	section := io.NewSectionReader(a.reader, a.base+e.Offset, e.CompressedSize)
	return &Reader{
		archive: a,
		entry:   e,
		reader:  lz4.NewReader(section),
	}, nil
}

// Close releases the underlying storage when the Archive owns it,
// as it does when created with OpenFile.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	archive *Archive
	entry   IndexEntry
	reader  *lz4.Reader
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}

// Size is the decompressed size of the file
func (r *Reader) Size() int64 {
	return r.entry.Size
}

// Close implements io.Closer. The Archive stays open.
func (r *Reader) Close() error {
	return nil
}
