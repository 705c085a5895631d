package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pocxnet/pocxaddr/build"
)

const (
	// maxBech32Len is the maximum length of a Bech32 string as defined in
	// BIP0173.
	maxBech32Len = 90

	// maxHRPLen is the maximum length of a human-readable part.
	maxHRPLen = 83

	// maxWitnessVersion is the highest witness version a segwit address
	// may carry.
	maxWitnessVersion = 16
)

// WitnessAddress is a decoded segwit address.
type WitnessAddress struct {
	// HRP is the human-readable part exactly as it appeared in the
	// encoded string.
	HRP string

	// Version is the witness version, in [0, 16].
	Version byte

	// Program is the witness program. Only 20 byte programs are
	// accepted, whatever the witness version.
	Program [PayloadLen]byte
}

// String encodes the address again. Version 0 uses the Bech32 checksum, all
// later versions use Bech32m.
func (w *WitnessAddress) String() string {
	addr, err := encodeSegwit(w.HRP, w.Version, w.Program)
	if err != nil {
		return fmt.Sprintf("<invalid segwit address: %v>", err)
	}

	return addr
}

// validateHRP checks that hrp is a legal human-readable part: 1 to 83
// characters in the printable ASCII range [33, 126], not mixing upper and
// lower case.
func validateHRP(hrp string) error {
	if len(hrp) == 0 || len(hrp) > maxHRPLen {
		return fmt.Errorf("%w: length %d not in [1, %d]", ErrInvalidHRP,
			len(hrp), maxHRPLen)
	}

	var lower, upper bool
	for i := 0; i < len(hrp); i++ {
		c := hrp[i]
		switch {
		case c < 33 || c > 126:
			return fmt.Errorf("%w: invalid character 0x%02x at "+
				"position %d", ErrInvalidHRP, c, i)

		case c >= 'a' && c <= 'z':
			lower = true

		case c >= 'A' && c <= 'Z':
			upper = true
		}
	}

	if lower && upper {
		return fmt.Errorf("%w: mixed case", ErrInvalidHRP)
	}

	return nil
}

// EncodeBech32 encodes the payload as a witness version 0 segwit address
// with the given human-readable part. The result is lowercase, unless hrp is
// all uppercase in which case the whole string is uppercase.
func EncodeBech32(payload [PayloadLen]byte, hrp string) (string, error) {
	return encodeSegwit(hrp, 0, payload)
}

// encodeSegwit encodes a witness program under the given witness version.
func encodeSegwit(hrp string, version byte,
	program [PayloadLen]byte) (string, error) {

	if err := validateHRP(hrp); err != nil {
		return "", err
	}

	if version > maxWitnessVersion {
		return "", fmt.Errorf("%w: %d", ErrInvalidWitnessVersion,
			version)
	}

	converted, err := bech32.ConvertBits(program[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}
	data := append([]byte{version}, converted...)

	var addr string
	if version == 0 {
		addr, err = bech32.Encode(hrp, data)
	} else {
		addr, err = bech32.EncodeM(hrp, data)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}

	if len(addr) > maxBech32Len {
		return "", fmt.Errorf("%w: encoded length %d exceeds %d",
			ErrInvalidBech32, len(addr), maxBech32Len)
	}

	// The bech32 package always emits lowercase. An uppercase hrp asks
	// for the uppercase form, which carries the same checksum.
	if strings.ToUpper(hrp) == hrp && strings.ToLower(hrp) != hrp {
		addr = strings.ToUpper(addr)
	}

	return addr, nil
}

// DecodeBech32 decodes a segwit address and returns its 20 byte witness
// program and its human-readable part, with the case it had in addr.
func DecodeBech32(addr string) ([PayloadLen]byte, string, error) {
	witness, err := DecodeSegwit(addr)
	if err != nil {
		return [PayloadLen]byte{}, "", err
	}

	return witness.Program, witness.HRP, nil
}

// DecodeSegwit decodes a segwit address. Witness version 0 must use the
// Bech32 checksum and versions 1 through 16 must use Bech32m. The witness
// program must be exactly 20 bytes long for every version.
func DecodeSegwit(addr string) (*WitnessAddress, error) {
	_, data, encoding, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data part", ErrInvalidBech32)
	}

	version := data[0]
	if version > maxWitnessVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWitnessVersion,
			version)
	}

	switch {
	case version == 0 && encoding != bech32.Version0:
		return nil, fmt.Errorf("%w: witness version 0 requires "+
			"bech32 checksum", ErrInvalidBech32)

	case version != 0 && encoding != bech32.VersionM:
		return nil, fmt.Errorf("%w: witness version %d requires "+
			"bech32m checksum", ErrInvalidBech32, version)
	}

	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBech32, err)
	}

	if len(program) != PayloadLen {
		return nil, &InvalidLengthError{
			Expected: PayloadLen,
			Actual:   len(program),
		}
	}

	// DecodeGeneric hands back a lowercased hrp. The separator is the last
	// '1' in the string, so slicing the input keeps the original case.
	witness := &WitnessAddress{
		HRP:     addr[:strings.LastIndexByte(addr, '1')],
		Version: version,
	}
	copy(witness.Program[:], program)

	log.Tracef("Decoded segwit address: %v", build.SpewLogClosure(witness))

	return witness, nil
}
