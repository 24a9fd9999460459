package streamio

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileBuffer memory-maps a frame file read-only, wrapped behind the Buffer
// capability so the rest of the codec never distinguishes "file" from
// "memory".
type FileBuffer struct {
	f    *os.File
	m    mmap.MMap
	ro   *ReadOnlyMemoryBuffer
}

// OpenFileBuffer memory-maps name for read-only access.
func OpenFileBuffer(name string) (*FileBuffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileBuffer{f: f, m: m, ro: NewReadOnlyMemoryBuffer(m)}, nil
}

func (b *FileBuffer) Read(p []byte) (int, error)  { return b.ro.Read(p) }
func (b *FileBuffer) Write(p []byte) (int, error) { return 0, ErrReadOnly }
func (b *FileBuffer) Seek(off int64) error        { return b.ro.Seek(off) }
func (b *FileBuffer) Tell() int64                 { return b.ro.Tell() }
func (b *FileBuffer) Len() int64                  { return b.ro.Len() }

// Bytes returns the whole mapped file contents.
func (b *FileBuffer) Bytes() []byte { return b.m }

// Close unmaps the file and closes the descriptor.
func (b *FileBuffer) Close() error {
	err := b.m.Unmap()
	if cerr := b.f.Close(); err == nil {
		err = cerr
	}
	return err
}
