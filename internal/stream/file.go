package stream

import (
	"errors"
	"io"
	"os"

	apperrors "github.com/cryptflow/cryptflow/internal/errors"
)

// FileStream is a Stream backed by an *os.File. It is the concrete source
// most commonly wrapped by an Encrypting or Decrypting transformer in the
// CLI: a plaintext or ciphertext file on disk.
type FileStream struct {
	f        *os.File
	size     int64
	hasSize  bool
	position int64
	atEOF    bool
}

// NewFileStream opens path for reading and stats it up front so Size() is
// available without an extra syscall on the hot path.
func NewFileStream(path string) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.IOError(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apperrors.IOError(err)
	}
	return &FileStream{f: f, size: fi.Size(), hasSize: true}, nil
}

func (fs *FileStream) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(fs.f, buf)
	fs.position += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			fs.atEOF = true
			return buf[:read], nil
		}
		return buf[:read], apperrors.IOError(err)
	}
	if read < n {
		fs.atEOF = true
	}
	return buf[:read], nil
}

func (fs *FileStream) Eof() bool {
	return fs.atEOF
}

func (fs *FileStream) Rewind() error {
	_, err := fs.Seek(0, SET)
	return err
}

func (fs *FileStream) Seek(offset int64, whence Whence) (int64, error) {
	var w int
	switch whence {
	case SET:
		w = io.SeekStart
	case CUR:
		w = io.SeekCurrent
	case END:
		w = io.SeekEnd
	default:
		return 0, apperrors.LogicError("unknown whence")
	}
	pos, err := fs.f.Seek(offset, w)
	if err != nil {
		return 0, apperrors.IOError(err)
	}
	fs.position = pos
	fs.atEOF = fs.hasSize && pos >= fs.size
	return pos, nil
}

func (fs *FileStream) Tell() int64 {
	return fs.position
}

func (fs *FileStream) Size() (int64, bool) {
	return fs.size, fs.hasSize
}

func (fs *FileStream) Seekable() bool {
	return true
}

func (fs *FileStream) Writable() bool {
	return false
}

func (fs *FileStream) Contents() ([]byte, error) {
	return ReadAll(fs, 64*1024)
}

// Close releases the underlying file descriptor. FileStream is the only
// Stream in this module that owns anything worth closing; transformers
// never close the sources they wrap.
func (fs *FileStream) Close() error {
	return fs.f.Close()
}
