// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"

	"github.com/fxamacker/cbor/v2"
)

// SelfDescribeTag is the encoded CBOR tag 55799, which marks a byte
// stream as CBOR without changing the meaning of the item it wraps.
var SelfDescribeTag = []byte{0xd9, 0xd9, 0xf7}

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Hash trees nest one array level per fork and label, so a
		// certificate covering many boundary nodes can exceed the
		// default limit of 32.
		MaxNestedLevels: 256,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// MarshalSelfDescribed encodes v like Marshal and prefixes the result
// with SelfDescribeTag.
func MarshalSelfDescribed(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(bytes.Clone(SelfDescribeTag), data...), nil
}

// Unmarshal decodes CBOR data into v. A leading SelfDescribeTag is
// skipped.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(bytes.TrimPrefix(data, SelfDescribeTag), v)
}

// RawMessage is a raw encoded CBOR value, used to defer decoding of
// heterogeneous arrays such as hash tree nodes.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for
// data. Used in error messages for responses that fail to decode.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(bytes.TrimPrefix(data, SelfDescribeTag))
}
