package address

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase58 is returned when a string contains characters
	// outside of the Base58 alphabet or is empty. It is always joined with
	// ErrChecksum, since Base58Check treats every undecodable string as a
	// checksum failure.
	ErrInvalidBase58 = errors.New("invalid base58 string")

	// ErrInvalidBech32 is returned when a string is not a well formed
	// Bech32 or Bech32m segwit address.
	ErrInvalidBech32 = errors.New("invalid bech32 string")

	// ErrChecksum is returned when a Base58Check string fails to decode to
	// a 25 byte buffer with a valid checksum.
	ErrChecksum = errors.New("base58 checksum mismatch")

	// ErrInvalidWitnessVersion is returned when a segwit address carries a
	// witness version above 16.
	ErrInvalidWitnessVersion = errors.New("invalid witness version")

	// ErrInvalidHRP is returned when a human-readable part is empty, too
	// long, uses characters outside of printable ASCII or mixes case.
	ErrInvalidHRP = errors.New("invalid human-readable part")

	// ErrUnknownFormat is returned when a string is neither a Base58Check
	// nor a Bech32 address, or when no network was given to Encode.
	ErrUnknownFormat = errors.New("unknown address format")
)

// InvalidLengthError is returned when a payload or witness program does not
// have the length the address format requires.
type InvalidLengthError struct {
	// Expected is the required length in bytes.
	Expected int

	// Actual is the length that was found.
	Actual int
}

// Error returns a human readable description of the length mismatch.
//
// NOTE: Part of the error interface.
func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid length: expected %d bytes, got %d",
		e.Expected, e.Actual)
}
