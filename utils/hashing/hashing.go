// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hashing provides the content-addressing and checksum primitives
// used across the validator.
package hashing

import (
	"crypto/sha256"
	"fmt"
)

const HashLen = sha256.Size

// ComputeHash256Array computes the sha256 hash of the given byte slice.
func ComputeHash256Array(buf []byte) [HashLen]byte {
	return sha256.Sum256(buf)
}

// ComputeHash256 computes the sha256 hash of the given byte slice.
func ComputeHash256(buf []byte) []byte {
	arr := ComputeHash256Array(buf)
	return arr[:]
}

// Checksum creates a checksum of [length] bytes from the sha256 hash of the
// byte slice.
func Checksum(bytes []byte, length int) []byte {
	hash := ComputeHash256(bytes)
	return hash[len(hash)-length:]
}

// ToHash256 interprets the byte slice as a 32-byte hash.
func ToHash256(bytes []byte) ([HashLen]byte, error) {
	hash := [HashLen]byte{}
	if len(bytes) != HashLen {
		return hash, fmt.Errorf("expected 32 bytes but got %d", len(bytes))
	}
	copy(hash[:], bytes)
	return hash, nil
}
