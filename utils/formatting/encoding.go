// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package formatting converts raw bytes to and from the wire encodings used
// by the JSON API.
package formatting

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/payvm/utils/hashing"
)

const (
	hexPrefix   = "0x"
	checksumLen = 4

	maxEncodeSize = 1 << 22 // 4 MiB of raw payload
)

var (
	errEncodingOverFlow = errors.New("encoding overflow")
	errInvalidEncoding  = errors.New("invalid encoding")
	errMissingChecksum  = errors.New("input string is smaller than the checksum size")
	errBadChecksum      = errors.New("invalid input checksum")
	errMissingHexPrefix = errors.New("missing 0x prefix to hex encoding")
)

// Encoding defines how bytes are converted to a string and vice versa
type Encoding uint8

const (
	// Hex specifies a hex plus 4 byte checksum encoding format
	Hex Encoding = iota
)

func (enc Encoding) String() string {
	switch enc {
	case Hex:
		return "hex"
	default:
		return errInvalidEncoding.Error()
	}
}

func (enc Encoding) valid() bool {
	return enc == Hex
}

func (enc Encoding) MarshalJSON() ([]byte, error) {
	if !enc.valid() {
		return nil, errInvalidEncoding
	}
	return []byte(`"` + enc.String() + `"`), nil
}

func (enc *Encoding) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var encStr string
	if err := json.Unmarshal(b, &encStr); err != nil {
		return err
	}
	switch strings.ToLower(encStr) {
	case "hex":
		*enc = Hex
	default:
		return errInvalidEncoding
	}
	return nil
}

// Encode converts bytes to a string using the given encoding. A 4 byte
// checksum of the payload is appended before encoding.
func Encode(encoding Encoding, b []byte) (string, error) {
	if !encoding.valid() {
		return "", errInvalidEncoding
	}

	bytesLen := len(b)
	if bytesLen > maxEncodeSize {
		return "", fmt.Errorf("%w: %d > %d", errEncodingOverFlow, bytesLen, maxEncodeSize)
	}
	checked := make([]byte, bytesLen+checksumLen)
	copy(checked, b)
	copy(checked[bytesLen:], hashing.Checksum(b, checksumLen))

	return hexPrefix + hex.EncodeToString(checked), nil
}

// Decode converts a string to bytes using the given encoding, verifying and
// stripping the trailing checksum.
func Decode(encoding Encoding, str string) ([]byte, error) {
	if !encoding.valid() {
		return nil, errInvalidEncoding
	}
	if len(str) == 0 {
		return nil, nil
	}

	if !strings.HasPrefix(str, hexPrefix) {
		return nil, errMissingHexPrefix
	}
	decoded, err := hex.DecodeString(strings.TrimPrefix(str, hexPrefix))
	if err != nil {
		return nil, err
	}
	if len(decoded) < checksumLen {
		return nil, errMissingChecksum
	}

	rawBytes := decoded[:len(decoded)-checksumLen]
	checksum := decoded[len(decoded)-checksumLen:]
	if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
		return nil, errBadChecksum
	}
	return rawBytes, nil
}
