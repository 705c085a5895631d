package netparams

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/keychain"
)

const (
	// CoinTypeMainNet is the BIP0044 coin type used by main net keys.
	CoinTypeMainNet = 0

	// CoinTypeTestNet is the BIP0044 coin type shared by all test
	// networks.
	CoinTypeTestNet = 1
)

// ErrUnknownNetwork is returned when a network name has no preset.
var ErrUnknownNetwork = errors.New("unknown network")

// Params couples the address encodings of a network with the coin type its
// HD keys are derived under.
type Params struct {
	// Name is the name used to select the network on the command line
	// and in config files.
	Name string

	// Base58Version is the version byte of Base58Check addresses.
	Base58Version byte

	// Bech32HRP is the human-readable part of segwit addresses.
	Bech32HRP string

	// CoinType is the BIP0044 coin type of the derivation path.
	CoinType uint32
}

// MainNetParams contains the parameters of the pocx main network.
var MainNetParams = Params{
	Name:          "mainnet",
	Base58Version: 0x55,
	Bech32HRP:     "pocx",
	CoinType:      CoinTypeMainNet,
}

// TestNetParams contains the parameters of the pocx test network.
var TestNetParams = Params{
	Name:          "testnet",
	Base58Version: 0x7F,
	Bech32HRP:     "tpocx",
	CoinType:      CoinTypeTestNet,
}

// registeredNets lists every preset ParamsForNetwork can return.
var registeredNets = []*Params{&MainNetParams, &TestNetParams}

// ParamsForNetwork returns the preset registered under name. Names are
// matched case-insensitively.
func ParamsForNetwork(name string) (*Params, error) {
	for _, params := range registeredNets {
		if strings.EqualFold(params.Name, name) {
			return params, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
}

// Networks returns the names of all presets.
func Networks() []string {
	names := make([]string, 0, len(registeredNets))
	for _, params := range registeredNets {
		names = append(names, params.Name)
	}

	return names
}

// Base58 returns the network identifier of the network's Base58Check
// addresses.
func (p *Params) Base58() address.NetworkID {
	return address.Base58Net(p.Base58Version)
}

// Bech32 returns the network identifier of the network's segwit addresses.
func (p *Params) Bech32() address.NetworkID {
	return address.Bech32Net(p.Bech32HRP)
}

// WIFVersion returns the prefix byte of the network's WIF private keys.
func (p *Params) WIFVersion() byte {
	return keychain.WIFVersion(p.Base58Version)
}

// DerivationPath returns the BIP0084 path of the first external key of the
// first account on the network.
func (p *Params) DerivationPath() string {
	return fmt.Sprintf("m/%d'/%d'/0'/0/0", keychain.BIP0084Purpose,
		p.CoinType)
}

// String returns the network name.
func (p *Params) String() string {
	return p.Name
}
