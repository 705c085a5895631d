// Package descriptor builds output descriptor strings for the keys and
// addresses handled by pocxaddr and computes their checksums as defined in
// BIP0380.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// inputCharset lists every character allowed in a descriptor. The
	// position of a character selects the symbols fed to the checksum.
	inputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
		"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
		"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

	// checksumCharset is the alphabet of the checksum, the same one
	// Bech32 uses for its data part.
	checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	// ChecksumLen is the number of characters in a descriptor checksum.
	ChecksumLen = 8

	// checksumSep separates a descriptor from its checksum.
	checksumSep = "#"
)

var (
	// ErrInvalidCharacter is returned when a descriptor contains a
	// character outside of the descriptor character set.
	ErrInvalidCharacter = errors.New("invalid descriptor character")

	// ErrMissingChecksum is returned by Verify for a descriptor without a
	// checksum suffix.
	ErrMissingChecksum = errors.New("missing descriptor checksum")

	// ErrChecksumMismatch is returned by Verify when the checksum suffix
	// does not match the descriptor.
	ErrChecksumMismatch = errors.New("descriptor checksum mismatch")
)

// generator holds the coefficients of the checksum's generator polynomial.
var generator = [5]uint64{
	0xf5dee51989, 0xa9fdca3312, 0x1bab10e32d, 0x3706b1677a, 0x644d626ffd,
}

// polymod feeds the symbols into the BCH code that underlies the checksum
// and returns the resulting 40 bit residue.
func polymod(symbols []uint64) uint64 {
	chk := uint64(1)
	for _, value := range symbols {
		top := chk >> 35
		chk = (chk&0x7ffffffff)<<5 ^ value
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generator[i]
			}
		}
	}

	return chk
}

// expand maps a descriptor to checksum symbols. Each character contributes
// its low five bits, and the high bits of every three characters are packed
// into one extra symbol.
func expand(desc string) ([]uint64, error) {
	symbols := make([]uint64, 0, len(desc)+len(desc)/3+1)
	groups := make([]uint64, 0, 3)

	for i := 0; i < len(desc); i++ {
		pos := strings.IndexByte(inputCharset, desc[i])
		if pos < 0 {
			return nil, fmt.Errorf("%w: %q at position %d",
				ErrInvalidCharacter, desc[i], i)
		}

		v := uint64(pos)
		symbols = append(symbols, v&31)
		groups = append(groups, v>>5)

		if len(groups) == 3 {
			symbols = append(
				symbols, groups[0]*9+groups[1]*3+groups[2],
			)
			groups = groups[:0]
		}
	}

	switch len(groups) {
	case 1:
		symbols = append(symbols, groups[0])

	case 2:
		symbols = append(symbols, groups[0]*3+groups[1])
	}

	return symbols, nil
}

// Checksum returns the eight character checksum of desc, which must not
// carry a checksum already.
func Checksum(desc string) (string, error) {
	symbols, err := expand(desc)
	if err != nil {
		return "", err
	}

	symbols = append(symbols, make([]uint64, ChecksumLen)...)
	residue := polymod(symbols) ^ 1

	var sum [ChecksumLen]byte
	for i := range sum {
		shift := uint(5 * (ChecksumLen - 1 - i))
		sum[i] = checksumCharset[(residue>>shift)&31]
	}

	return string(sum[:]), nil
}

// AddChecksum returns desc followed by "#" and its checksum.
func AddChecksum(desc string) (string, error) {
	sum, err := Checksum(desc)
	if err != nil {
		return "", err
	}

	return desc + checksumSep + sum, nil
}

// Verify checks the checksum suffix of a descriptor of the form
// "desc#checksum".
func Verify(desc string) error {
	idx := strings.LastIndex(desc, checksumSep)
	if idx < 0 {
		return ErrMissingChecksum
	}

	body, got := desc[:idx], desc[idx+1:]
	if len(got) != ChecksumLen {
		return fmt.Errorf("%w: checksum %q has %d characters, "+
			"expected %d", ErrChecksumMismatch, got, len(got),
			ChecksumLen)
	}

	want, err := Checksum(body)
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("%w: expected %s, got %s",
			ErrChecksumMismatch, want, got)
	}

	return nil
}
