package transform

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/cryptflow/cryptflow/internal/cipher"
	apperrors "github.com/cryptflow/cryptflow/internal/errors"
	"github.com/cryptflow/cryptflow/internal/stream"
)

// Decrypting wraps a ciphertext Stream and produces plaintext lazily. For
// padded cipher methods it holds one ciphertext block back from the
// source (the lookahead) so it can tell the final block apart from a
// middle one before stripping PKCS#7 padding.
type Decrypting struct {
	source stream.Stream
	key    []byte
	method cipher.Method

	buf        blockBuffer
	finalized  bool
	blockIndex int
	tell       int64

	held      []byte
	heldValid bool
}

// NewDecrypting constructs a Decrypting transformer over source.
func NewDecrypting(source stream.Stream, key []byte, method cipher.Method) (*Decrypting, error) {
	if source == nil {
		return nil, apperrors.InvalidArgument("source stream is required")
	}
	if method == nil {
		return nil, apperrors.InvalidArgument("cipher method is required")
	}
	return &Decrypting{source: source, key: key, method: method}, nil
}

func (d *Decrypting) fail(err error) error {
	log.Error().Err(err).Int("block", d.blockIndex).Str("cipher", d.method.OpenSSLName()).Msg("block decryption failed")
	return apperrors.DecryptionFailed(d.blockIndex, err)
}

func (d *Decrypting) produceBlock() error {
	if d.finalized {
		return nil
	}
	if !d.heldValid {
		b, err := d.source.Read(cipher.BlockSize)
		if err != nil {
			return apperrors.IOError(err)
		}
		d.held = b
		d.heldValid = true
	}

	name := d.method.OpenSSLName()
	iv := d.method.CurrentIV()

	if d.method.RequiresPadding() {
		next, err := d.source.Read(cipher.BlockSize)
		if err != nil {
			return apperrors.IOError(err)
		}
		if len(next) == cipher.BlockSize {
			if len(d.held) != cipher.BlockSize {
				return d.fail(errors.New("ciphertext is not block-aligned"))
			}
			pt, err := cipher.Decrypt(name, d.key, iv, d.held)
			if err != nil {
				return d.fail(err)
			}
			d.buf.append(pt)
			d.method.Update(d.held)
			d.blockIndex++
			d.held = next
			return nil
		}
		if len(next) != 0 {
			return d.fail(errors.New("ciphertext is not block-aligned"))
		}
		pt, err := cipher.DecryptFinal(name, d.key, iv, d.held, true)
		if err != nil {
			return d.fail(err)
		}
		d.buf.append(pt)
		d.finalized = true
		d.heldValid = false
		return nil
	}

	if len(d.held) == cipher.BlockSize {
		pt, err := cipher.Decrypt(name, d.key, iv, d.held)
		if err != nil {
			return d.fail(err)
		}
		d.buf.append(pt)
		d.method.Update(d.held)
		d.blockIndex++
		d.heldValid = false
		return nil
	}
	pt, err := cipher.DecryptFinal(name, d.key, iv, d.held, false)
	if err != nil {
		return d.fail(err)
	}
	d.buf.append(pt)
	d.finalized = true
	d.heldValid = false
	return nil
}

func (d *Decrypting) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	for d.buf.len() < n && !d.finalized {
		if err := d.produceBlock(); err != nil {
			return nil, err
		}
	}
	out := d.buf.take(n)
	d.tell += int64(len(out))
	return out, nil
}

func (d *Decrypting) Eof() bool {
	return d.finalized && d.buf.len() == 0
}

func (d *Decrypting) Rewind() error {
	_, err := d.Seek(0, stream.SET)
	return err
}

func (d *Decrypting) Seek(offset int64, whence stream.Whence) (int64, error) {
	if whence != stream.SET || offset != 0 {
		return d.tell, apperrors.LogicError("decrypting transformer supports only seek(0, SET); wrap in a bounded stream for arbitrary positioning")
	}
	if !d.source.Seekable() {
		return d.tell, apperrors.LogicError("underlying source is not seekable")
	}
	if err := d.source.Rewind(); err != nil {
		return d.tell, err
	}
	if err := d.method.Seek(0, stream.SET); err != nil {
		return d.tell, err
	}
	d.buf.reset()
	d.finalized = false
	d.blockIndex = 0
	d.tell = 0
	d.held = nil
	d.heldValid = false
	return 0, nil
}

func (d *Decrypting) Tell() int64 {
	return d.tell
}

func (d *Decrypting) Size() (int64, bool) {
	if d.method.RequiresPadding() {
		return 0, false
	}
	return d.source.Size()
}

func (d *Decrypting) Seekable() bool {
	return d.source.Seekable()
}

func (d *Decrypting) Writable() bool {
	return false
}

func (d *Decrypting) Contents() ([]byte, error) {
	return stream.ReadAll(d, 64*1024)
}
