// Package cipher implements the CBC and CTR cipher-method strategies: IV
// state machines that track the current block-cipher position, declare
// whether PKCS#7 padding is required, and constrain which seeks are legal.
// It also hosts the AES primitive the strategies and transformers drive,
// built directly on crypto/aes and crypto/cipher.
package cipher

import (
	"github.com/cryptflow/cryptflow/internal/stream"
)

// BlockSize is the AES block size in bytes, fixed regardless of key size.
const BlockSize = 16

// Method is the capability set every cipher-method strategy implements:
// currentIv, openSslName, requiresPadding, update, and seek from §4.1.
type Method interface {
	// CurrentIV returns the 16-byte IV to use for the next block
	// operation.
	CurrentIV() []byte

	// OpenSSLName returns the canonical "aes-{bits}-{cbc|ctr}" name.
	OpenSSLName() string

	// RequiresPadding reports whether the final block must be PKCS#7
	// padded (CBC) or left unpadded (CTR).
	RequiresPadding() bool

	// Update advances IV state after block has been produced.
	Update(block []byte)

	// Seek repositions IV state. Most combinations are illegal and return
	// a LogicError; see the CBC and CTR implementations.
	Seek(offset int64, whence stream.Whence) error

	// Clone returns an independent copy sharing no IV state with the
	// receiver, so an encrypter and a decrypter can start from the same
	// initial IV without aliasing each other's mutations.
	Clone() Method
}
