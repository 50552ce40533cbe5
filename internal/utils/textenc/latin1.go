package textenc

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// EncodeLatin1 converts UTF-8 text to ISO-8859-1, the encoding expected by
// the government SPED validator (PVA) for transmitted files.
func EncodeLatin1(content string) ([]byte, error) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content as ISO-8859-1: %w", err)
	}
	return []byte(encoded), nil
}
