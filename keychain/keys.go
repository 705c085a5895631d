package keychain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// PrivKeyLen is the length of a serialized private key scalar.
	PrivKeyLen = 32

	// PubKeyLen is the length of a compressed public key.
	PubKeyLen = btcec.PubKeyBytesLenCompressed

	// PayloadLen is the length of the hash160 of a public key, the only
	// value that ends up inside an address.
	PayloadLen = 20
)

var (
	// ErrInvalidPrivateKey is returned when a byte string is not a valid
	// secp256k1 scalar: wrong length, zero, or not below the group order.
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// PrivateKey is a secp256k1 private scalar that is guaranteed to be non-zero
// and strictly less than the curve order. The zero value is not a usable key;
// obtain one through GenerateRandom, PrivKeyFromBytes, ParseWIF or
// FromMnemonic.
type PrivateKey struct {
	scalar [PrivKeyLen]byte
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey struct {
	compressed [PubKeyLen]byte
}

// NewPrivateKey generates a fresh private key from the operating system's
// CSPRNG.
func NewPrivateKey() (PrivateKey, error) {
	return GenerateRandom(rand.Reader)
}

// GenerateRandom draws 32 byte candidates from the entropy source until one of
// them is a valid scalar. Candidates that are zero or that overflow the group
// order are discarded. The entropy source must be safe for concurrent use if
// GenerateRandom is called concurrently with the same source.
func GenerateRandom(entropy io.Reader) (PrivateKey, error) {
	var candidate [PrivKeyLen]byte
	for attempt := 1; ; attempt++ {
		if _, err := io.ReadFull(entropy, candidate[:]); err != nil {
			return PrivateKey{}, fmt.Errorf("unable to read "+
				"entropy: %w", err)
		}

		if isValidScalar(&candidate) {
			log.Tracef("Generated private key after %d attempt(s)",
				attempt)

			return PrivateKey{scalar: candidate}, nil
		}

		log.Debugf("Rejected out of range private key candidate, "+
			"attempt=%d", attempt)
	}
}

// PrivKeyFromBytes returns the private key encoded by the 32 byte big-endian
// scalar b.
func PrivKeyFromBytes(b []byte) (PrivateKey, error) {
	if len(b) != PrivKeyLen {
		return PrivateKey{}, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidPrivateKey, PrivKeyLen, len(b))
	}

	var scalar [PrivKeyLen]byte
	copy(scalar[:], b)

	if !isValidScalar(&scalar) {
		return PrivateKey{}, fmt.Errorf("%w: scalar is zero or not "+
			"below the curve order", ErrInvalidPrivateKey)
	}

	return PrivateKey{scalar: scalar}, nil
}

// isValidScalar reports whether the big-endian value is in [1, N-1] where N is
// the secp256k1 group order.
func isValidScalar(b *[PrivKeyLen]byte) bool {
	var s secp.ModNScalar
	overflow := s.SetBytes(b)

	return overflow == 0 && !s.IsZero()
}

// PubKey derives the compressed public key for the private key.
//
// NOTE: this panics if the key was not obtained through one of the package
// constructors, since those already guarantee a valid scalar.
func (k PrivateKey) PubKey() PublicKey {
	if !isValidScalar(&k.scalar) {
		panic("keychain: public key derivation from invalid scalar")
	}

	_, pub := btcec.PrivKeyFromBytes(k.scalar[:])

	var pk PublicKey
	copy(pk.compressed[:], pub.SerializeCompressed())

	return pk
}

// btcecKey returns the btcec representation of the key.
func (k PrivateKey) btcecKey() *btcec.PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(k.scalar[:])
	return priv
}

// Bytes returns the 33 byte compressed serialization of the public key.
func (p PublicKey) Bytes() [PubKeyLen]byte {
	return p.compressed
}

// Hash160 returns RIPEMD160(SHA256(pubkey)) over the compressed
// serialization.
func (p PublicKey) Hash160() [PayloadLen]byte {
	var h [PayloadLen]byte
	copy(h[:], btcutil.Hash160(p.compressed[:]))

	return h
}

// AddressPayload returns the 20 byte value that is encoded into addresses for
// this key. It is the key's hash160.
func (p PublicKey) AddressPayload() [PayloadLen]byte {
	return p.Hash160()
}

// Hex returns the lowercase hex encoding of the compressed public key.
func (p PublicKey) Hex() string {
	return hex.EncodeToString(p.compressed[:])
}

// String returns the hex encoding of the key.
func (p PublicKey) String() string {
	return p.Hex()
}

// ParsePubKey parses a 33 byte compressed public key and verifies that it is
// a point on the curve.
func ParsePubKey(b []byte) (PublicKey, error) {
	if len(b) != PubKeyLen {
		return PublicKey{}, fmt.Errorf("invalid public key length: "+
			"expected %d, got %d", PubKeyLen, len(b))
	}

	if _, err := btcec.ParsePubKey(b); err != nil {
		return PublicKey{}, err
	}

	var pk PublicKey
	copy(pk.compressed[:], b)

	return pk, nil
}
