package cipher

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/cryptflow/cryptflow/internal/errors"
)

// NewMethod constructs the cipher-method strategy named by name, one of
// "aes-128-cbc", "aes-256-cbc", "aes-128-ctr", or "aes-256-ctr", seeded with
// iv. Unlike a mutable provider registry, this is a pure function over a
// closed set of four names that spec.md §6 enumerates exhaustively; there is
// no extension point and none is needed.
func NewMethod(name string, iv []byte) (Method, error) {
	parts := strings.Split(name, "-")
	if len(parts) != 3 || parts[0] != "aes" {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unrecognized cipher method name %q", name))
	}
	bits, err := strconv.Atoi(parts[1])
	if err != nil || (bits != 128 && bits != 256) {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unsupported key size in cipher method name %q", name))
	}
	switch parts[2] {
	case "cbc":
		return NewCBC(bits, iv)
	case "ctr":
		return NewCTR(bits, iv)
	default:
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unsupported cipher mode in cipher method name %q", name))
	}
}
