package cipher

import (
	"fmt"
	"math/big"

	apperrors "github.com/cryptflow/cryptflow/internal/errors"
	"github.com/cryptflow/cryptflow/internal/stream"
)

// CTR is the cipher-method strategy whose IV is a 128-bit big-endian
// counter. Because the keystream at block k depends only on IV+k, CTR is
// randomly addressable at block granularity: seeking forward by whole
// blocks, or resetting to the start, both just reposition the counter.
type CTR struct {
	name      string
	initialIV [BlockSize]byte
	iv        [BlockSize]byte
}

// NewCTR constructs a CTR strategy with the given key size and initial IV
// (the initial counter value). Construction fails with an InvalidArgument
// error when iv is not exactly BlockSize bytes.
func NewCTR(keyBits int, iv []byte) (*CTR, error) {
	return newCTRNamed(fmt.Sprintf("aes-%d-ctr", keyBits), iv)
}

// NewCTRNamed is CTR's equivalent of NewCBCNamed, for exercising malformed
// cipher-name handling.
func NewCTRNamed(name string, iv []byte) (*CTR, error) {
	return newCTRNamed(name, iv)
}

func newCTRNamed(name string, iv []byte) (*CTR, error) {
	if len(iv) != BlockSize {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("iv must be %d bytes, got %d", BlockSize, len(iv)))
	}
	c := &CTR{name: name}
	copy(c.initialIV[:], iv)
	copy(c.iv[:], iv)
	return c, nil
}

func (c *CTR) CurrentIV() []byte {
	out := make([]byte, BlockSize)
	copy(out, c.iv[:])
	return out
}

func (c *CTR) OpenSSLName() string { return c.name }

func (c *CTR) RequiresPadding() bool { return false }

func (c *CTR) Update(block []byte) {
	blocks := (int64(len(block)) + BlockSize - 1) / BlockSize
	c.advance(blocks)
}

// advance treats the 16-byte IV as a single 128-bit big-endian unsigned
// integer and adds n to it, carrying across the full width with no
// reserved nonce/counter split.
func (c *CTR) advance(n int64) {
	cur := new(big.Int).SetBytes(c.iv[:])
	cur.Add(cur, big.NewInt(n))

	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	cur.Mod(cur, mod)

	b := cur.Bytes()
	var next [BlockSize]byte
	copy(next[BlockSize-len(b):], b)
	c.iv = next
}

func (c *CTR) Seek(offset int64, whence stream.Whence) error {
	switch whence {
	case stream.SET:
		if offset != 0 {
			return apperrors.LogicError("ctr seek(offset, SET) only supports offset 0")
		}
		c.iv = c.initialIV
		return nil
	case stream.CUR:
		if offset < 0 {
			return apperrors.LogicError("ctr does not support negative seek(offset, CUR)")
		}
		if offset%BlockSize != 0 {
			return apperrors.LogicError(fmt.Sprintf("ctr seek offset must be a multiple of %d, got %d", BlockSize, offset))
		}
		c.advance(offset / BlockSize)
		return nil
	default:
		return apperrors.LogicError("ctr does not support seek(offset, END)")
	}
}

func (c *CTR) Clone() Method {
	clone := &CTR{name: c.name, initialIV: c.initialIV, iv: c.iv}
	return clone
}
