package types

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ContentID is a SHA-1 hash of a G-code stream, used to tell inputs and outputs apart in reports.
type ContentID [20]byte

// ComputeContentID hashes content.
func ComputeContentID(content []byte) ContentID {
	return ContentID(sha1.Sum(content))
}

// Hex returns 40-character hex string.
func (id ContentID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements Stringer (returns Hex()).
func (id ContentID) String() string {
	return id.Hex()
}

// Short returns the first 12 hex characters.
func (id ContentID) Short() string {
	return id.Hex()[:12]
}

// ParseContentID parses 40-char hex string to ContentID.
func ParseContentID(hexStr string) (ContentID, error) {
	if len(hexStr) != 40 {
		return ContentID{}, fmt.Errorf("invalid content ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return ContentID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id ContentID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id ContentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ContentID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseContentID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
