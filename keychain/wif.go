package keychain

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	// WIFMainNetVersion is the WIF prefix byte used for every network that
	// is not one of the two test networks.
	WIFMainNetVersion = 0x80

	// WIFTestNetVersion is the WIF prefix byte used for the test networks.
	WIFTestNetVersion = 0xEF

	// testNetBase58Version and regTestBase58Version are the address
	// version bytes that select the test network WIF prefix.
	testNetBase58Version = 0x7F
	regTestBase58Version = 0x7E
)

var (
	// ErrInvalidWIF is returned when a string is not a compressed WIF
	// private key for a known network prefix.
	ErrInvalidWIF = errors.New("invalid WIF private key")
)

// wifParams maps an address version byte to the chain params whose
// PrivateKeyID is the WIF prefix to use. Only the two test network versions
// map to the test prefix, every other version is treated as main net.
func wifParams(networkVersion byte) *chaincfg.Params {
	switch networkVersion {
	case testNetBase58Version, regTestBase58Version:
		return &chaincfg.TestNet3Params
	default:
		return &chaincfg.MainNetParams
	}
}

// WIFVersion returns the WIF prefix byte used for keys of the network with
// the given Base58 address version.
func WIFVersion(networkVersion byte) byte {
	return wifParams(networkVersion).PrivateKeyID
}

// WIF serializes the key in wallet import format for the network identified
// by its Base58 address version byte. The encoding is
// prefix || key || 0x01 || checksum, where the 0x01 marks the key as using
// compressed public keys, so the result is always 52 characters long.
func (k PrivateKey) WIF(networkVersion byte) string {
	wif, err := btcutil.NewWIF(k.btcecKey(), wifParams(networkVersion), true)
	if err != nil {
		// NewWIF only fails on nil params, which wifParams never
		// returns.
		panic(fmt.Sprintf("keychain: unable to create WIF: %v", err))
	}

	return wif.String()
}

// ParseWIF decodes a compressed WIF string created by WIF. It returns the key
// along with the WIF prefix byte, WIFMainNetVersion or WIFTestNetVersion.
func ParseWIF(wif string) (PrivateKey, byte, error) {
	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return PrivateKey{}, 0, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}

	if !decoded.CompressPubKey {
		return PrivateKey{}, 0, fmt.Errorf("%w: uncompressed keys are "+
			"not supported", ErrInvalidWIF)
	}

	var version byte
	switch {
	case decoded.IsForNet(&chaincfg.MainNetParams):
		version = WIFMainNetVersion

	case decoded.IsForNet(&chaincfg.TestNet3Params):
		version = WIFTestNetVersion

	default:
		return PrivateKey{}, 0, fmt.Errorf("%w: unknown network prefix",
			ErrInvalidWIF)
	}

	// DecodeWIF reduces the scalar modulo the curve order, so the range
	// check runs on the encoded bytes instead. DecodeWIF already checked
	// the length and checksum.
	raw := base58.Decode(wif)
	key, err := PrivKeyFromBytes(raw[1 : 1+PrivKeyLen])
	if err != nil {
		return PrivateKey{}, 0, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}

	return key, version, nil
}
