package stream

import apperrors "github.com/cryptflow/cryptflow/internal/errors"

// BoundedStream windows an underlying Stream to the byte range
// [start, start+length) and exposes absolute, caller-relative seeks over
// that window even when the underlying stream can only be reset to its own
// beginning — which is all a Decrypting transformer promises. This is the
// same problem an HTTP Range request poses for a streaming decrypter: the
// caller wants bytes [a, b) of the logical output, and the only cheap
// operation the source offers is "start over." BoundedStream satisfies an
// absolute seek by rewinding the underlying stream and discarding bytes up
// to the target offset whenever the target lies behind the underlying
// stream's current position; forward seeks are satisfied by discard-reading
// from where the underlying stream already is.
type BoundedStream struct {
	underlying Stream
	start      int64
	length     int64
	hasLength  bool
	position   int64 // position relative to start
}

// NewBoundedStream wraps underlying, restricting visible output to the
// half-open window [start, start+length). A negative length means "read to
// the end of the underlying stream," leaving the total size unknown.
func NewBoundedStream(underlying Stream, start, length int64) (*BoundedStream, error) {
	if start < 0 {
		return nil, apperrors.InvalidArgument("bounded stream start must be non-negative")
	}
	bs := &BoundedStream{underlying: underlying, start: start}
	if length >= 0 {
		bs.length = length
		bs.hasLength = true
	}
	if err := bs.seekUnderlyingTo(0); err != nil {
		return nil, err
	}
	return bs, nil
}

// seekUnderlyingTo positions the underlying stream so its next byte is
// window-relative offset rel. It only ever rewinds-and-discards or
// discards-forward; it never assumes the underlying stream supports
// arbitrary seeks.
func (bs *BoundedStream) seekUnderlyingTo(rel int64) error {
	target := bs.start + rel
	if bs.underlying.Tell() > target {
		if err := bs.underlying.Rewind(); err != nil {
			return err
		}
	}
	for bs.underlying.Tell() < target {
		remaining := target - bs.underlying.Tell()
		chunk := remaining
		if chunk > 1<<20 {
			chunk = 1 << 20
		}
		if _, err := bs.underlying.Read(int(chunk)); err != nil {
			return err
		}
		if bs.underlying.Eof() {
			break
		}
	}
	return nil
}

func (bs *BoundedStream) remaining() (int64, bool) {
	if !bs.hasLength {
		return 0, false
	}
	return bs.length - bs.position, true
}

func (bs *BoundedStream) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if rem, ok := bs.remaining(); ok {
		if rem <= 0 {
			return nil, nil
		}
		if int64(n) > rem {
			n = int(rem)
		}
	}
	b, err := bs.underlying.Read(n)
	bs.position += int64(len(b))
	return b, err
}

func (bs *BoundedStream) Eof() bool {
	if rem, ok := bs.remaining(); ok && rem <= 0 {
		return true
	}
	return bs.underlying.Eof()
}

func (bs *BoundedStream) Rewind() error {
	_, err := bs.Seek(0, SET)
	return err
}

func (bs *BoundedStream) Seek(offset int64, whence Whence) (int64, error) {
	var target int64
	switch whence {
	case SET:
		target = offset
	case CUR:
		target = bs.position + offset
	case END:
		rem, ok := bs.remaining()
		if !ok {
			return 0, apperrors.LogicError("seek from end requires a known bounded length")
		}
		target = bs.position + rem + offset
	default:
		return 0, apperrors.LogicError("unknown whence")
	}
	if target < 0 {
		return 0, apperrors.LogicError("seek before start of bounded window")
	}
	if bs.hasLength && target > bs.length {
		target = bs.length
	}
	if err := bs.seekUnderlyingTo(target); err != nil {
		return 0, err
	}
	bs.position = target
	return bs.position, nil
}

func (bs *BoundedStream) Tell() int64 {
	return bs.position
}

func (bs *BoundedStream) Size() (int64, bool) {
	if bs.hasLength {
		return bs.length, true
	}
	return 0, false
}

func (bs *BoundedStream) Seekable() bool {
	return true
}

func (bs *BoundedStream) Writable() bool {
	return false
}

func (bs *BoundedStream) Contents() ([]byte, error) {
	return ReadAll(bs, 64*1024)
}
