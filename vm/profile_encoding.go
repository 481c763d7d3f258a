package vm

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Profiles are stored as canonical CBOR so that the same counts always
// produce the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalProfile serializes a Profile to CBOR bytes.
func MarshalProfile(p *Profile) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// UnmarshalProfile deserializes a Profile from CBOR bytes.
func UnmarshalProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("vm: unmarshal profile: %w", err)
	}
	if p.Loops == nil {
		p.Loops = make(map[int]LoopCounts)
	}
	return &p, nil
}

// SaveProfile writes p to path.
func SaveProfile(path string, p *Profile) error {
	data, err := MarshalProfile(p)
	if err != nil {
		return fmt.Errorf("vm: marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("vm: write profile: %w", err)
	}
	return nil
}

// LoadProfile reads a profile written by SaveProfile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vm: read profile: %w", err)
	}
	return UnmarshalProfile(data)
}
