package address

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// PayloadLen is the length of the public key hash carried by every
	// address.
	PayloadLen = 20

	// checksumLen is the number of double-SHA256 bytes appended to a
	// Base58Check payload.
	checksumLen = 4

	// Base58DecodedLen is the length of a decoded Base58Check address:
	// version byte, payload and checksum.
	Base58DecodedLen = 1 + PayloadLen + checksumLen
)

// EncodeBase58 encodes the payload as a Base58Check address with the given
// version byte. The encoded buffer is version || payload || checksum where
// checksum is the first four bytes of the double-SHA256 of version ||
// payload.
func EncodeBase58(payload [PayloadLen]byte, version byte) string {
	return base58.CheckEncode(payload[:], version)
}

// DecodeBase58 decodes a Base58Check address. It returns the full 25 byte
// decoded buffer along with its version byte. The payload is
// decoded[1:21].
//
// Every failure matches ErrChecksum. Strings that are not Base58 at all also
// match ErrInvalidBase58.
func DecodeBase58(addr string) ([Base58DecodedLen]byte, byte, error) {
	var decoded [Base58DecodedLen]byte

	// The base58 package signals both empty input and characters outside
	// of the alphabet with an empty result.
	raw := base58.Decode(addr)
	if len(raw) == 0 {
		return decoded, 0, fmt.Errorf("%w: %w", ErrChecksum,
			ErrInvalidBase58)
	}

	if len(raw) != Base58DecodedLen {
		return decoded, 0, fmt.Errorf("%w: decoded length %d, "+
			"expected %d", ErrChecksum, len(raw), Base58DecodedLen)
	}

	body := raw[:Base58DecodedLen-checksumLen]
	sum := chainhash.DoubleHashB(body)
	if !bytes.Equal(sum[:checksumLen], raw[len(body):]) {
		return decoded, 0, fmt.Errorf("%w: expected %x, got %x",
			ErrChecksum, sum[:checksumLen], raw[len(body):])
	}

	copy(decoded[:], raw)

	return decoded, decoded[0], nil
}

// base58Payload extracts the payload from a decoded Base58Check buffer.
func base58Payload(decoded [Base58DecodedLen]byte) [PayloadLen]byte {
	var payload [PayloadLen]byte
	copy(payload[:], decoded[1:1+PayloadLen])

	return payload
}
