package transform

import (
	"github.com/rs/zerolog/log"

	"github.com/cryptflow/cryptflow/internal/cipher"
	apperrors "github.com/cryptflow/cryptflow/internal/errors"
	"github.com/cryptflow/cryptflow/internal/stream"
)

// Encrypting wraps a plaintext Stream and produces ciphertext lazily, one
// cipher block at a time, via method.
type Encrypting struct {
	source stream.Stream
	key    []byte
	method cipher.Method

	buf        blockBuffer
	finalized  bool
	blockIndex int
	tell       int64
}

// NewEncrypting constructs an Encrypting transformer over source. The
// returned transformer owns method exclusively; pass method.Clone() if the
// caller needs an independent copy (for instance, to build a Decrypting
// transformer sharing the same initial IV).
func NewEncrypting(source stream.Stream, key []byte, method cipher.Method) (*Encrypting, error) {
	if source == nil {
		return nil, apperrors.InvalidArgument("source stream is required")
	}
	if method == nil {
		return nil, apperrors.InvalidArgument("cipher method is required")
	}
	return &Encrypting{source: source, key: key, method: method}, nil
}

// produceBlock reads one cipher block of plaintext and appends its
// ciphertext to the buffer, finalizing the stream once the source runs dry.
func (e *Encrypting) produceBlock() error {
	if e.finalized {
		return nil
	}
	plain, err := e.source.Read(cipher.BlockSize)
	if err != nil {
		return apperrors.IOError(err)
	}
	name := e.method.OpenSSLName()
	iv := e.method.CurrentIV()

	if len(plain) == cipher.BlockSize {
		ct, err := cipher.Encrypt(name, e.key, iv, plain)
		if err != nil {
			log.Error().Err(err).Int("block", e.blockIndex).Str("cipher", name).Msg("block encryption failed")
			return apperrors.EncryptionFailed(e.blockIndex, err)
		}
		e.buf.append(ct)
		e.method.Update(ct)
		e.blockIndex++
		return nil
	}

	ct, err := cipher.EncryptFinal(name, e.key, iv, plain, e.method.RequiresPadding())
	if err != nil {
		log.Error().Err(err).Int("block", e.blockIndex).Str("cipher", name).Msg("final block encryption failed")
		return apperrors.EncryptionFailed(e.blockIndex, err)
	}
	e.buf.append(ct)
	e.finalized = true
	return nil
}

func (e *Encrypting) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	for e.buf.len() < n && !e.finalized {
		if err := e.produceBlock(); err != nil {
			return nil, err
		}
	}
	out := e.buf.take(n)
	e.tell += int64(len(out))
	return out, nil
}

func (e *Encrypting) Eof() bool {
	return e.finalized && e.buf.len() == 0
}

func (e *Encrypting) Rewind() error {
	_, err := e.Seek(0, stream.SET)
	return err
}

func (e *Encrypting) Seek(offset int64, whence stream.Whence) (int64, error) {
	switch whence {
	case stream.SET:
		if offset != 0 {
			return e.tell, apperrors.LogicError("encrypting transformer supports only seek(0, SET)")
		}
		if !e.source.Seekable() {
			return e.tell, apperrors.LogicError("underlying source is not seekable")
		}
		if err := e.source.Rewind(); err != nil {
			return e.tell, err
		}
		if err := e.method.Seek(0, stream.SET); err != nil {
			return e.tell, err
		}
		e.buf.reset()
		e.finalized = false
		e.blockIndex = 0
		e.tell = 0
		return 0, nil

	case stream.CUR:
		if offset == 0 {
			return e.tell, nil
		}
		if e.method.RequiresPadding() {
			return e.tell, apperrors.LogicError("cbc encrypting transformer does not support seek(offset, CUR)")
		}
		target := e.tell + offset
		if target < 0 {
			return e.tell, apperrors.LogicError("seek(offset, CUR) would precede the start of the stream")
		}
		return e.recomputeTo(target)

	default:
		return e.tell, apperrors.LogicError("encrypting transformer does not support seek(offset, END)")
	}
}

// recomputeTo satisfies a forward-addressable CUR seek (CTR only) by
// resetting to the initial IV and discard-reading up to the target
// position, per the "CUR seek = recompute from SET" rule.
func (e *Encrypting) recomputeTo(target int64) (int64, error) {
	if !e.source.Seekable() {
		return e.tell, apperrors.LogicError("underlying source is not seekable")
	}
	if err := e.source.Rewind(); err != nil {
		return e.tell, err
	}
	if err := e.method.Seek(0, stream.SET); err != nil {
		return e.tell, err
	}
	e.buf.reset()
	e.finalized = false
	e.blockIndex = 0
	e.tell = 0

	const chunk = 64 * 1024
	for e.tell < target {
		want := target - e.tell
		if want > chunk {
			want = chunk
		}
		got, err := e.Read(int(want))
		if err != nil {
			return e.tell, err
		}
		if len(got) == 0 {
			break
		}
	}
	return e.tell, nil
}

func (e *Encrypting) Tell() int64 {
	return e.tell
}

func (e *Encrypting) Size() (int64, bool) {
	srcSize, ok := e.source.Size()
	if !ok {
		return 0, false
	}
	if e.method.RequiresPadding() {
		return (srcSize+1+cipher.BlockSize-1) / cipher.BlockSize * cipher.BlockSize, true
	}
	return srcSize, true
}

func (e *Encrypting) Seekable() bool {
	return e.source.Seekable()
}

func (e *Encrypting) Writable() bool {
	return false
}

func (e *Encrypting) Contents() ([]byte, error) {
	return stream.ReadAll(e, 64*1024)
}
