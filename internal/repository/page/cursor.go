// Package page implements the opaque pagination cursor shared by the
// collection and item repositories. The server pages by limit/offset; the
// cursor encodes the next offset so callers never handle raw offsets.
package page

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/chromalens/chromalens-go/internal/domain"
)

// EncodeCursor returns an opaque cursor for the given offset. Offset zero
// (start of the listing) encodes to the empty cursor.
func EncodeCursor(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(offset)))
}

// DecodeCursor returns the offset a cursor points at. The empty cursor means
// the start of the listing.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}
	s := string(raw)
	if len(s) < 3 || s[:2] != "o:" {
		return 0, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}
	offset, err := strconv.Atoi(s[2:])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}
	return offset, nil
}
