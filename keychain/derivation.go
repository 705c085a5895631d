package keychain

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pocxnet/pocxaddr/build"
	"github.com/tyler-smith/go-bip39"
)

const (
	// BIP0084Purpose is the purpose used by the default derivation path.
	// Addresses produced by this package carry a 20 byte key hash, which
	// is what the BIP0084 (P2WPKH) scheme derives keys for.
	BIP0084Purpose = 84

	// DefaultDerivationPath is the path FromMnemonic callers use when they
	// have no preference: first external key of account 0, coin type 0.
	DefaultDerivationPath = "m/84'/0'/0'/0/0"

	// mnemonicEntropyBits is the entropy size of generated mnemonics,
	// which yields 12 words.
	mnemonicEntropyBits = 128

	// maxPathDepth bounds the number of path elements so a crafted path
	// cannot make us derive forever. BIP0032 serializes depth in one
	// byte.
	maxPathDepth = 255
)

var (
	// ErrInvalidMnemonic is returned when a mnemonic has an unknown word,
	// a bad word count or a bad checksum.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidPath is returned when a derivation path cannot be parsed.
	ErrInvalidPath = errors.New("invalid derivation path")
)

// NewMnemonic creates a 12 word BIP0039 English mnemonic from 128 bits read
// from the entropy source.
func NewMnemonic(entropy io.Reader) (string, error) {
	seed := make([]byte, mnemonicEntropyBits/8)
	if _, err := io.ReadFull(entropy, seed); err != nil {
		return "", fmt.Errorf("unable to read entropy: %w", err)
	}

	return bip39.NewMnemonic(seed)
}

// ParsePath parses a BIP0032 path such as "m/84'/0'/0'/0/0" into child
// indexes. A trailing ' or h marks an element as hardened. The bare path "m"
// yields no indexes and selects the master key.
func ParsePath(path string) ([]uint32, error) {
	elems := strings.Split(path, "/")
	if elems[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath,
			path)
	}
	elems = elems[1:]

	if len(elems) > maxPathDepth {
		return nil, fmt.Errorf("%w: depth %d exceeds %d", ErrInvalidPath,
			len(elems), maxPathDepth)
	}

	indexes := make([]uint32, 0, len(elems))
	for _, elem := range elems {
		var offset uint32
		switch {
		case strings.HasSuffix(elem, "'"), strings.HasSuffix(elem, "h"):
			offset = hdkeychain.HardenedKeyStart
			elem = elem[:len(elem)-1]
		}

		index, err := strconv.ParseUint(elem, 10, 32)
		if err != nil || uint32(index) >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: index %q out of range",
				ErrInvalidPath, elem)
		}

		indexes = append(indexes, uint32(index)+offset)
	}

	return indexes, nil
}

// FromMnemonic derives the private key at path from a BIP0039 mnemonic and
// optional passphrase: the mnemonic is stretched into a 64 byte seed, the
// seed into a BIP0032 master key, and the master key walked down the path.
// Both hardened and normal path elements are supported.
func FromMnemonic(mnemonic, passphrase, path string) (PrivateKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return PrivateKey{}, err
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}

	// The params only select the version bytes of serialized extended
	// keys, which are never exposed, so main net is as good as any.
	extKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("unable to create master "+
			"key: %w", err)
	}

	for depth, index := range indexes {
		extKey, err = extKey.Derive(index)
		if err != nil {
			return PrivateKey{}, fmt.Errorf("unable to derive "+
				"child %d at depth %d: %w", index, depth+1, err)
		}
	}

	ecKey, err := extKey.ECPrivKey()
	if err != nil {
		return PrivateKey{}, err
	}

	key, err := PrivKeyFromBytes(ecKey.Serialize())
	if err != nil {
		return PrivateKey{}, err
	}

	log.Debugf("Derived public key %v at path %v", build.NewLogClosure(
		func() string {
			return key.PubKey().Hex()
		},
	), path)

	return key, nil
}
