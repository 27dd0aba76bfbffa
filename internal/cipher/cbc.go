package cipher

import (
	"fmt"

	apperrors "github.com/cryptflow/cryptflow/internal/errors"
	"github.com/cryptflow/cryptflow/internal/stream"
)

// CBC is the cipher-method strategy whose IV state is simply "the last
// ciphertext block produced." Reseeking to anywhere but the start would
// require replaying the chain from the beginning, so only (0, SET) is
// legal.
type CBC struct {
	name      string
	initialIV [BlockSize]byte
	iv        [BlockSize]byte
}

// NewCBC constructs a CBC strategy with the given key size and initial IV.
// Construction fails with an InvalidArgument error when iv is not exactly
// BlockSize bytes.
func NewCBC(keyBits int, iv []byte) (*CBC, error) {
	return newCBCNamed(fmt.Sprintf("aes-%d-cbc", keyBits), iv)
}

// NewCBCNamed constructs a CBC strategy reporting an arbitrary OpenSslName,
// independent of any real key size. It exists for exercising how the
// engine reacts to a malformed cipher name surfacing as an encryption or
// decryption failure only once the AES primitive rejects it.
func NewCBCNamed(name string, iv []byte) (*CBC, error) {
	return newCBCNamed(name, iv)
}

func newCBCNamed(name string, iv []byte) (*CBC, error) {
	if len(iv) != BlockSize {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("iv must be %d bytes, got %d", BlockSize, len(iv)))
	}
	c := &CBC{name: name}
	copy(c.initialIV[:], iv)
	copy(c.iv[:], iv)
	return c, nil
}

func (c *CBC) CurrentIV() []byte {
	out := make([]byte, BlockSize)
	copy(out, c.iv[:])
	return out
}

func (c *CBC) OpenSSLName() string { return c.name }

func (c *CBC) RequiresPadding() bool { return true }

func (c *CBC) Update(block []byte) {
	if len(block) < BlockSize {
		return
	}
	copy(c.iv[:], block[len(block)-BlockSize:])
}

func (c *CBC) Seek(offset int64, whence stream.Whence) error {
	if offset == 0 && whence == stream.SET {
		c.iv = c.initialIV
		return nil
	}
	return apperrors.LogicError("cbc supports only seek(0, SET)")
}

func (c *CBC) Clone() Method {
	clone := &CBC{name: c.name, initialIV: c.initialIV, iv: c.iv}
	return clone
}
