package transform

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	apperrors "github.com/cryptflow/cryptflow/internal/errors"
	"github.com/cryptflow/cryptflow/internal/stream"
)

var hashFactories = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

func newHasher(alg string, key []byte) (hash.Hash, error) {
	factory, ok := hashFactories[alg]
	if !ok {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unsupported hash algorithm %q", alg))
	}
	if key != nil {
		return hmac.New(factory, key), nil
	}
	return factory(), nil
}

// Hashing is a transparent pass-through transformer: every byte read from
// source is returned unchanged to the caller and also fed into a running
// digest, keyed with HMAC when hmacKey is non-nil. The digest is finalized
// and delivered to onDigest exactly once, the first time a read reaches the
// source's EOF.
type Hashing struct {
	source  stream.Stream
	alg     string
	hmacKey []byte
	onDigest func([]byte)

	h      hash.Hash
	called bool
	digest []byte
	tell   int64
}

// NewHashing constructs a Hashing transformer over source using the named
// algorithm. If hmacKey is non-nil, the digest is HMAC(alg, key, ...)
// rather than a plain hash. onDigest, if non-nil, fires exactly once per
// EOF with the finalized digest.
func NewHashing(source stream.Stream, alg string, hmacKey []byte, onDigest func([]byte)) (*Hashing, error) {
	if source == nil {
		return nil, apperrors.InvalidArgument("source stream is required")
	}
	h, err := newHasher(alg, hmacKey)
	if err != nil {
		return nil, err
	}
	return &Hashing{source: source, alg: alg, hmacKey: hmacKey, onDigest: onDigest, h: h}, nil
}

func (h *Hashing) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	b, err := h.source.Read(n)
	if err != nil {
		return nil, err
	}
	if len(b) > 0 {
		h.h.Write(b)
	}
	h.tell += int64(len(b))
	if h.source.Eof() && !h.called {
		h.digest = h.h.Sum(nil)
		h.called = true
		if h.onDigest != nil {
			h.onDigest(h.digest)
		}
	}
	return b, nil
}

func (h *Hashing) Eof() bool {
	return h.source.Eof()
}

func (h *Hashing) Rewind() error {
	if err := h.source.Rewind(); err != nil {
		return err
	}
	fresh, err := newHasher(h.alg, h.hmacKey)
	if err != nil {
		return err
	}
	h.h = fresh
	h.digest = nil
	h.called = false
	h.tell = 0
	return nil
}

func (h *Hashing) Seek(offset int64, whence stream.Whence) (int64, error) {
	if offset != 0 || whence != stream.SET {
		return h.tell, apperrors.LogicError("hashing transformer supports only seek(0, SET)")
	}
	if err := h.Rewind(); err != nil {
		return h.tell, err
	}
	return 0, nil
}

func (h *Hashing) Tell() int64 {
	return h.tell
}

func (h *Hashing) Size() (int64, bool) {
	return h.source.Size()
}

func (h *Hashing) Seekable() bool {
	return h.source.Seekable()
}

func (h *Hashing) Writable() bool {
	return false
}

func (h *Hashing) Contents() ([]byte, error) {
	return stream.ReadAll(h, 64*1024)
}

// Digest returns the cached final digest. It is nil until the source has
// been fully read once since construction or the last Rewind.
func (h *Hashing) Digest() []byte {
	return h.digest
}
