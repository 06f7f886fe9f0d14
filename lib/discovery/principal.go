// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

// ErrInvalidPrincipal is wrapped by every ParsePrincipal failure.
var ErrInvalidPrincipal = errors.New("invalid principal")

// maxPrincipalLength is the longest principal the IC accepts, in bytes.
const maxPrincipalLength = 29

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is a raw Internet Computer principal (canister, subnet,
// node, or user identifier).
type Principal []byte

// AnonymousPrincipal is the sender of unsigned requests.
var AnonymousPrincipal = Principal{0x04}

// ParsePrincipal decodes the textual form of a principal: lowercase
// base32 of a big-endian CRC-32 checksum followed by the raw bytes,
// split into dash-separated groups of five characters. The checksum
// and the grouping are both verified.
func ParsePrincipal(text string) (Principal, error) {
	compact := strings.ReplaceAll(text, "-", "")
	decoded, err := principalEncoding.DecodeString(strings.ToUpper(compact))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPrincipal, text, err)
	}
	if len(decoded) < crc32.Size {
		return nil, fmt.Errorf("%w %q: too short", ErrInvalidPrincipal, text)
	}

	checksum := binary.BigEndian.Uint32(decoded[:crc32.Size])
	principal := Principal(decoded[crc32.Size:])
	if len(principal) > maxPrincipalLength {
		return nil, fmt.Errorf("%w %q: %d bytes exceeds %d", ErrInvalidPrincipal, text, len(principal), maxPrincipalLength)
	}
	if crc32.ChecksumIEEE(principal) != checksum {
		return nil, fmt.Errorf("%w %q: checksum mismatch", ErrInvalidPrincipal, text)
	}
	if principal.String() != strings.ToLower(text) {
		return nil, fmt.Errorf("%w %q: not in canonical form (expected %s)", ErrInvalidPrincipal, text, principal.String())
	}
	return principal, nil
}

// String returns the canonical textual form.
func (p Principal) String() string {
	data := make([]byte, crc32.Size, crc32.Size+len(p))
	binary.BigEndian.PutUint32(data, crc32.ChecksumIEEE(p))
	data = append(data, p...)

	encoded := strings.ToLower(principalEncoding.EncodeToString(data))
	var builder strings.Builder
	for i := 0; i < len(encoded); i += 5 {
		if i > 0 {
			builder.WriteByte('-')
		}
		builder.WriteString(encoded[i:min(i+5, len(encoded))])
	}
	return builder.String()
}
