package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainScene prefixes scene fingerprints. The version suffix leaves room
// for a future change of canonical form.
const DomainScene = "lusid/scene/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content hash of the scene's canonical document.
// Scenes that encode to the same document share a fingerprint, whatever
// their input formatting or key order.
func Fingerprint(s *Scene) (string, error) {
	canonical, err := Canonical(s)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainScene, canonical), nil
}

// Canonical returns the canonical JSON of the scene's document form.
func Canonical(s *Scene) ([]byte, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(doc)
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the scene is known to encode.
func MustFingerprint(s *Scene) string {
	fp, err := Fingerprint(s)
	if err != nil {
		panic(err)
	}
	return fp
}
