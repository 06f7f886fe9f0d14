// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration used to talk to the
// Internet Computer HTTP interface.
//
// Requests to a replica or boundary node are CBOR envelopes, and the
// replies (including read_state certificates) are CBOR documents that
// usually begin with the self-describing tag 55799 (bytes d9 d9 f7).
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2) so the
// same request always produces the same bytes. The decoder tolerates
// unknown fields so newer replica responses keep decoding.
//
//	body, err := codec.MarshalSelfDescribed(envelope)
//	err = codec.Unmarshal(reply, &response)
package codec
