// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	require := require.New(t)

	payload := []byte{0, 1, 2, 3, 255}
	encoded, err := Encode(Hex, payload)
	require.NoError(err)

	decoded, err := Decode(Hex, encoded)
	require.NoError(err)
	require.Equal(payload, decoded)

	decoded, err = Decode(Hex, "")
	require.NoError(err)
	require.Empty(decoded)
}

func TestDecodeRejectsCorruption(t *testing.T) {
	require := require.New(t)

	encoded, err := Encode(Hex, []byte("payload"))
	require.NoError(err)

	_, err = Decode(Hex, encoded[2:])
	require.ErrorIs(err, errMissingHexPrefix)

	corrupted := []byte(encoded)
	corrupted[3] ^= 1 // first payload byte no longer matches the checksum
	_, err = Decode(Hex, string(corrupted))
	require.ErrorIs(err, errBadChecksum)

	_, err = Decode(Hex, "0x00")
	require.ErrorIs(err, errMissingChecksum)
}
