package cipher

import (
	"crypto/aes"
	cryptocipher "crypto/cipher"
	"fmt"
	"strconv"
	"strings"
)

// parseName decodes a canonical "aes-{bits}-{cbc|ctr}" name into its key
// size in bits and mode. An unrecognized mode or key size is itself the
// failure this module's malformed-cipher-name tests exercise (e.g. an
// "aes-157-cbd" method fails here, not in crypto/aes).
func parseName(name string) (bits int, mode string, err error) {
	parts := strings.Split(name, "-")
	if len(parts) != 3 || parts[0] != "aes" {
		return 0, "", fmt.Errorf("unrecognized cipher name %q", name)
	}
	bits, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", fmt.Errorf("unrecognized key size in cipher name %q", name)
	}
	if bits != 128 && bits != 192 && bits != 256 {
		return 0, "", fmt.Errorf("unsupported key size %d in cipher name %q", bits, name)
	}
	mode = parts[2]
	if mode != "cbc" && mode != "ctr" {
		return 0, "", fmt.Errorf("unsupported mode %q in cipher name %q", mode, name)
	}
	return bits, mode, nil
}

// Encrypt runs a single block operation of the primitive named by
// cipherName: for CBC, the entire data slice is encrypted under iv in one
// cipher.NewCBCEncrypter call (the caller pads beforehand when this is the
// final block); for CTR, data is XORed with the keystream generated from
// iv treated as the initial counter value for this call.
func Encrypt(cipherName string, key, iv, data []byte) ([]byte, error) {
	bits, mode, err := parseName(cipherName)
	if err != nil {
		return nil, err
	}
	if len(key)*8 != bits {
		return nil, fmt.Errorf("key length %d bytes does not match declared key size %d bits", len(key), bits)
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", BlockSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "cbc":
		if len(data)%BlockSize != 0 {
			return nil, fmt.Errorf("cbc encrypt requires block-aligned input, got %d bytes", len(data))
		}
		out := make([]byte, len(data))
		cryptocipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
		return out, nil
	case "ctr":
		out := make([]byte, len(data))
		cryptocipher.NewCTR(block, iv).XORKeyStream(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}

// EncryptFinal encrypts a source's final, possibly short tail. When
// requiresPadding is true the tail is PKCS#7 padded to exactly one block
// (even an empty tail yields a full padded block) before encryption;
// otherwise the tail is encrypted as-is, which for CTR yields ciphertext of
// the same length as the tail, including zero.
func EncryptFinal(cipherName string, key, iv, tail []byte, requiresPadding bool) ([]byte, error) {
	if requiresPadding {
		return Encrypt(cipherName, key, iv, pkcs7Pad(tail))
	}
	return Encrypt(cipherName, key, iv, tail)
}

// DecryptFinal is EncryptFinal's dual: when requiresPadding is true, the
// decrypted block is unpadded and a malformed pad byte surfaces as an
// error; otherwise the decrypted bytes are returned unchanged.
func DecryptFinal(cipherName string, key, iv, block []byte, requiresPadding bool) ([]byte, error) {
	pt, err := Decrypt(cipherName, key, iv, block)
	if err != nil {
		return nil, err
	}
	if requiresPadding {
		return pkcs7Unpad(pt)
	}
	return pt, nil
}

// Decrypt is Encrypt's dual: CBC requires block-aligned input and returns
// the raw (still padded) plaintext block; CTR is its own inverse.
func Decrypt(cipherName string, key, iv, data []byte) ([]byte, error) {
	bits, mode, err := parseName(cipherName)
	if err != nil {
		return nil, err
	}
	if len(key)*8 != bits {
		return nil, fmt.Errorf("key length %d bytes does not match declared key size %d bits", len(key), bits)
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", BlockSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "cbc":
		if len(data)%BlockSize != 0 {
			return nil, fmt.Errorf("cbc decrypt requires block-aligned input, got %d bytes", len(data))
		}
		out := make([]byte, len(data))
		cryptocipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
		return out, nil
	case "ctr":
		out := make([]byte, len(data))
		cryptocipher.NewCTR(block, iv).XORKeyStream(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}
