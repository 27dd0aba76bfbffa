// Package stream defines the byte-granular read/seek/rewind contract that
// the cipher transformers are built against, plus two concrete adapters:
// FileStream, backed by an *os.File, and BoundedStream, which windows an
// arbitrary Stream for callers that need absolute positioning over a
// source that only honors a reset-to-start seek.
package stream

import "io"

// Whence mirrors io.Seeker's whence values under the names the engine's
// seek rules are written against.
type Whence int

const (
	SET Whence = iota
	CUR
	END
)

// Stream is the capability every transformer implements and is built on
// top of. It differs from io.Reader in one deliberate way: Read returns a
// freshly sliced result rather than filling a caller buffer, and a short
// result is not itself an error — only Eof distinguishes "stream exhausted"
// from "short read, more to come."
type Stream interface {
	// Read returns up to n bytes. It returns fewer than n only at EOF, and
	// an empty, non-error result once EOF has already been reached.
	Read(n int) ([]byte, error)

	// Eof reports whether the stream is exhausted; calling Read again
	// after Eof returns true yields an empty slice and a nil error.
	Eof() bool

	// Rewind is equivalent to Seek(0, SET).
	Rewind() error

	// Seek repositions the stream. Not every whence is legal for every
	// stream; unsupported combinations return a LogicError.
	Seek(offset int64, whence Whence) (int64, error)

	// Tell returns the current position.
	Tell() int64

	// Size returns the total size of the stream's output and whether that
	// size is known. Some streams (padded decrypters) cannot know their
	// final size without fully consuming the source.
	Size() (int64, bool)

	// Seekable reports whether Seek can succeed for any non-trivial
	// argument combination.
	Seekable() bool

	// Writable reports whether the stream accepts writes. None of the
	// transformers in this module do.
	Writable() bool

	// Contents reads the stream to EOF from its current position and
	// returns everything read.
	Contents() ([]byte, error)
}

// Reader adapts a Stream to io.Reader so it composes with io.Copy,
// io.ReadAll, and the rest of the standard library.
type Reader struct {
	S Stream
}

func (r Reader) Read(p []byte) (int, error) {
	b, err := r.S.Read(len(p))
	n := copy(p, b)
	if err != nil {
		return n, err
	}
	if n == 0 && r.S.Eof() {
		return 0, io.EOF
	}
	return n, nil
}

// AsReader wraps s for use with io.Reader-consuming APIs.
func AsReader(s Stream) io.Reader {
	return Reader{S: s}
}

// ReadAll reads s to EOF from its current position. It is the Stream
// equivalent of io.ReadAll and is what Contents() is generally implemented
// in terms of.
func ReadAll(s Stream, chunk int) ([]byte, error) {
	if chunk <= 0 {
		chunk = 64 * 1024
	}
	var out []byte
	for {
		b, err := s.Read(chunk)
		out = append(out, b...)
		if err != nil {
			return out, err
		}
		if s.Eof() {
			return out, nil
		}
	}
}
