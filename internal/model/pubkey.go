package model

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyID is the canonical string identity of a node's public key:
// the XRPL base58check node-public encoding (leading 'n', 51-53 chars).
type PublicKeyID string

// nodePublicVersion is the XRPL token type prepended to a raw node public
// key before base58check encoding. Encoded keys always start with 'n'.
const nodePublicVersion = 0x1C

// canonicalKeyMinLen distinguishes already-encoded keys from raw base64
// ones. Base64-encoded 33-byte keys are 44 characters; encoded node
// publics are always longer than 50.
const canonicalKeyMinLen = 50

// xrplAlphabet is the base58 dictionary used by rippled. It differs from
// the Bitcoin alphabet so that encoded account IDs start with 'r'.
var xrplAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// NormalizePublicKey canonicalizes a node public key reported by a peer.
//
// Keys already in canonical form (longer than 50 characters, leading 'n')
// pass through unchanged, which makes normalization idempotent. Anything
// else is treated as the base64 encoding of the raw key bytes, as rippled
// emits them in /crawl documents, and re-encoded as a node-public
// base58check string.
//
// The only failure path is malformed base64; there is no I/O.
func NormalizePublicKey(raw string) (PublicKeyID, error) {
	if len(raw) > canonicalKeyMinLen && raw[0] == 'n' {
		return PublicKeyID(raw), nil
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode node public key %q: %w", raw, err)
	}

	return PublicKeyID(encodeNodePublic(key)), nil
}

// encodeNodePublic applies the XRPL base58check encoding: version byte,
// key bytes, then the first four bytes of a double SHA-256 checksum.
func encodeNodePublic(key []byte) string {
	payload := make([]byte, 0, len(key)+5)
	payload = append(payload, nodePublicVersion)
	payload = append(payload, key...)

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	payload = append(payload, second[:4]...)

	return base58.EncodeAlphabet(payload, xrplAlphabet)
}

// String returns the canonical key string.
func (k PublicKeyID) String() string {
	return string(k)
}

// IsZero reports whether the key is empty.
func (k PublicKeyID) IsZero() bool {
	return k == ""
}
