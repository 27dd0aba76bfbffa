package cipher

import apperrors "github.com/cryptflow/cryptflow/internal/errors"

// pkcs7Pad appends padding bytes so data reaches the next multiple of
// BlockSize. An already-block-aligned input (including an empty one) is
// padded with a full block of value BlockSize, per PKCS#7.
func pkcs7Pad(data []byte) []byte {
	padLen := BlockSize - len(data)%BlockSize
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

// pkcs7Unpad strips and validates PKCS#7 padding from a decrypted final
// block, returning a DecryptionFailed-worthy error when the pad byte is out
// of range or inconsistent.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, apperrors.InvalidArgument("pkcs7 unpad requires block-aligned, non-empty input")
	}
	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > BlockSize || padLen > len(data) {
		return nil, &pkcs7Error{"invalid pkcs7 padding byte"}
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, &pkcs7Error{"inconsistent pkcs7 padding"}
		}
	}
	return data[:len(data)-padLen], nil
}

type pkcs7Error struct{ msg string }

func (e *pkcs7Error) Error() string { return e.msg }
