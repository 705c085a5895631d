package descriptor

import (
	"fmt"

	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/keychain"
)

// mustAddChecksum adds a checksum to a descriptor built only from characters
// of the descriptor character set.
func mustAddChecksum(desc string) string {
	withSum, err := AddChecksum(desc)
	if err != nil {
		panic(fmt.Sprintf("descriptor: %v", err))
	}

	return withSum
}

// WPKH returns the checksummed pay-to-witness-key-hash descriptor for pub.
func WPKH(pub keychain.PublicKey) string {
	return mustAddChecksum(fmt.Sprintf("wpkh(%s)", pub.Hex()))
}

// PKH returns the checksummed pay-to-key-hash descriptor for pub.
func PKH(pub keychain.PublicKey) string {
	return mustAddChecksum(fmt.Sprintf("pkh(%s)", pub.Hex()))
}

// Addr returns the checksummed addr() descriptor for an address in either
// format. The address must decode.
func Addr(addr string) (string, error) {
	if _, _, err := address.Decode(addr); err != nil {
		return "", err
	}

	return AddChecksum(fmt.Sprintf("addr(%s)", addr))
}
