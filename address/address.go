package address

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Format is the encoding an address string uses.
type Format uint8

const (
	// FormatBase58 is a Base58Check address with a one byte version.
	FormatBase58 Format = iota

	// FormatBech32 is a Bech32 or Bech32m segwit address.
	FormatBech32
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatBase58:
		return "base58"

	case FormatBech32:
		return "bech32"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// NetworkID identifies the network an address belongs to. It is either a
// Base58Net version byte or a Bech32Net human-readable part; no other
// implementations exist.
type NetworkID interface {
	// Format returns the address format the network uses.
	Format() Format

	// String returns a human readable form of the network identifier.
	String() string

	isNetworkID()
}

// Base58Net is the version byte of a Base58Check network.
type Base58Net byte

// Format returns FormatBase58.
func (Base58Net) Format() Format {
	return FormatBase58
}

// String returns the version byte in hex.
func (b Base58Net) String() string {
	return fmt.Sprintf("base58(0x%02x)", byte(b))
}

func (Base58Net) isNetworkID() {}

// Bech32Net is the human-readable part of a Bech32 network.
type Bech32Net string

// Format returns FormatBech32.
func (Bech32Net) Format() Format {
	return FormatBech32
}

// String returns the human-readable part.
func (b Bech32Net) String() string {
	return fmt.Sprintf("bech32(%s)", string(b))
}

func (Bech32Net) isNetworkID() {}

// A compile time check to ensure both variants implement NetworkID.
var (
	_ NetworkID = Base58Net(0)
	_ NetworkID = Bech32Net("")
)

// Encode encodes a 20 byte payload for the given network, dispatching on the
// network variant.
func Encode(payload []byte, net NetworkID) (string, error) {
	if len(payload) != PayloadLen {
		return "", &InvalidLengthError{
			Expected: PayloadLen,
			Actual:   len(payload),
		}
	}

	var p [PayloadLen]byte
	copy(p[:], payload)

	switch n := net.(type) {
	case Base58Net:
		return EncodeBase58(p, byte(n)), nil

	case Bech32Net:
		return EncodeBech32(p, string(n))

	default:
		return "", fmt.Errorf("%w: no network given", ErrUnknownFormat)
	}
}

// Decode detects the format of addr and decodes it, returning the payload
// and the network it was encoded for. Strings that are neither format fail
// with ErrUnknownFormat.
func Decode(addr string) ([PayloadLen]byte, NetworkID, error) {
	format, err := DetectFormat(addr).UnwrapOrErr(
		fmt.Errorf("%w: %q", ErrUnknownFormat, addr),
	)
	if err != nil {
		return [PayloadLen]byte{}, nil, err
	}

	switch format {
	case FormatBech32:
		payload, hrp, err := DecodeBech32(addr)
		if err != nil {
			return [PayloadLen]byte{}, nil, err
		}

		return payload, Bech32Net(hrp), nil

	default:
		decoded, version, err := DecodeBase58(addr)
		if err != nil {
			return [PayloadLen]byte{}, nil, err
		}

		return base58Payload(decoded), Base58Net(version), nil
	}
}

// DetectFormat reports which format addr is encoded in. Bech32 is tried
// first since its checksum and separator make accidental matches less
// likely, then Base58Check. None is returned when neither decodes.
func DetectFormat(addr string) fn.Option[Format] {
	if _, err := DecodeSegwit(addr); err == nil {
		log.Tracef("Detected %v address %v", FormatBech32, addr)
		return fn.Some(FormatBech32)
	}

	if _, _, err := DecodeBase58(addr); err == nil {
		log.Tracef("Detected %v address %v", FormatBase58, addr)
		return fn.Some(FormatBase58)
	}

	return fn.None[Format]()
}
