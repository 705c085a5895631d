package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/descriptor"
	"github.com/pocxnet/pocxaddr/keychain"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

// keyOne is the private scalar 1.
var keyOne = append(make([]byte, 31), 0x01)

// runApp runs the tool with args and returns what it printed. The config
// file points into an empty temporary directory unless args override it.
func runApp(t *testing.T, entropy io.Reader, args ...string) (string,
	error) {

	t.Helper()

	var buf bytes.Buffer
	app := newApp(entropy)
	app.Writer = &buf
	app.ErrWriter = io.Discard

	cfgFile := filepath.Join(t.TempDir(), "pocxaddr.conf")
	fullArgs := append([]string{"pocxaddr", "--configfile", cfgFile}, args...)
	err := app.Run(fullArgs)

	return buf.String(), err
}

// TestDefaultCommand checks the output of an invocation without a command.
func TestDefaultCommand(t *testing.T) {
	out, err := runApp(t, bytes.NewReader(keyOne))
	require.NoError(t, err)

	key, err := keychain.PrivKeyFromBytes(keyOne)
	require.NoError(t, err)
	payload := key.PubKey().AddressPayload()

	base58Addr, err := address.Encode(payload[:], address.Base58Net(0x55))
	require.NoError(t, err)
	bech32Addr, err := address.Encode(payload[:], address.Bech32Net("pocx"))
	require.NoError(t, err)

	require.Contains(t, out, "Base58: "+base58Addr+"\n")
	require.Contains(t, out, "Bech32: "+bech32Addr+"\n")
	require.True(t, strings.HasSuffix(out, disclaimer+"\n"))

	_, err = runApp(t, bytes.NewReader(keyOne), "nosuchcommand")
	require.Error(t, err)
}

// TestGenerateFromMnemonic checks BIP84 derivation through the CLI on both
// networks.
func TestGenerateFromMnemonic(t *testing.T) {
	out, err := runApp(
		t, nil, "generate", "--mnemonic", testMnemonic, "--json",
	)
	require.NoError(t, err)

	var info keyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "mainnet", info.Network)
	require.Equal(t, keychain.DefaultDerivationPath, info.Path)
	require.Empty(t, info.Mnemonic)
	require.Equal(
		t, "0330d54fd0dd420a6e5f8d3624f5f3482cae350f79d5f0753bf5beef9c2d91af3c",
		info.PubKey,
	)
	require.Equal(
		t, "KyZpNDKnfs94vbrwhJneDi77V6jF64PWPF8x5cdJb8ifgg2DUc9d",
		info.WIF,
	)
	require.True(t, strings.HasPrefix(info.Bech32Address, "pocx1q"))
	require.NoError(t, descriptor.Verify(info.WPKHDescriptor))
	require.NoError(t, descriptor.Verify(info.PKHDescriptor))

	// Test net keys default to coin type 1, so pin the path to compare
	// against the same key.
	out, err = runApp(
		t, nil, "--network", "testnet", "generate", "--mnemonic",
		testMnemonic, "--path", keychain.DefaultDerivationPath,
		"--json",
	)
	require.NoError(t, err)

	var testInfo keyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &testInfo))
	require.Equal(t, "testnet", testInfo.Network)
	require.Equal(t, info.PubKey, testInfo.PubKey)
	require.Equal(t, info.Payload, testInfo.Payload)
	require.True(t, strings.HasPrefix(testInfo.WIF, "c"))
	require.True(t, strings.HasPrefix(testInfo.Bech32Address, "tpocx1q"))
}

// TestGenerateTable checks the table output and the new mnemonic flag.
func TestGenerateTable(t *testing.T) {
	out, err := runApp(
		t, bytes.NewReader(make([]byte, 16)), "generate", "--newmnemonic",
	)
	require.NoError(t, err)
	require.Contains(t, out, testMnemonic)
	require.Contains(t, out, "KyZpNDKnfs94vbrwhJneDi77V6jF64PWPF8x5cdJb8ifgg2DUc9d")
	require.Contains(t, out, "Bech32 address")

	_, err = runApp(t, nil, "generate", "--path", "m/0")
	require.Error(t, err)

	_, err = runApp(
		t, nil, "generate", "--mnemonic", testMnemonic, "--newmnemonic",
	)
	require.Error(t, err)
}

// TestEncodeCommand checks encoding with network overrides.
func TestEncodeCommand(t *testing.T) {
	const payload = "751e76e8199196d454941c45d1b3a323f1433bd6"

	out, err := runApp(
		t, nil, "--base58version", "0x00", "--hrp", "bc", "encode",
		"--payload", payload,
	)
	require.NoError(t, err)

	var resp encodeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", resp.Base58Address)
	require.Equal(
		t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		resp.Bech32Address,
	)

	out, err = runApp(
		t, nil, "encode", "--payload", payload, "--format", "bech32",
	)
	require.NoError(t, err)

	resp = encodeResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Empty(t, resp.Base58Address)
	require.True(t, strings.HasPrefix(resp.Bech32Address, "pocx1q"))

	_, err = runApp(t, nil, "encode", "--payload", payload[2:])
	var lengthErr *address.InvalidLengthError
	require.ErrorAs(t, err, &lengthErr)

	_, err = runApp(
		t, nil, "encode", "--payload", payload, "--format", "hex",
	)
	require.ErrorIs(t, err, address.ErrUnknownFormat)
}

// TestDecodeCommand checks decoding of both formats.
func TestDecodeCommand(t *testing.T) {
	const pocxAddr = "pocx1qfycvpqwhpf5jct5tmd090u4cxy9gleppquaasl"

	out, err := runApp(t, nil, "decode", pocxAddr)
	require.NoError(t, err)

	var resp decodeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "bech32", resp.Format)
	require.Equal(t, "pocx", resp.HRP)
	require.Equal(t, "mainnet", resp.Network)
	require.NotNil(t, resp.WitnessVersion)
	require.Equal(t, byte(0), *resp.WitnessVersion)
	require.Nil(t, resp.Version)

	payload, err := hex.DecodeString(resp.Payload)
	require.NoError(t, err)
	base58Addr, err := address.Encode(payload, address.Base58Net(0x7F))
	require.NoError(t, err)

	out, err = runApp(t, nil, "decode", base58Addr)
	require.NoError(t, err)

	resp = decodeResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "base58", resp.Format)
	require.Equal(t, "testnet", resp.Network)
	require.NotNil(t, resp.Version)
	require.Equal(t, byte(0x7F), *resp.Version)

	_, err = runApp(t, nil, "decode", "invalid")
	require.ErrorIs(t, err, address.ErrUnknownFormat)
}

// TestDetectCommand checks the reported formats.
func TestDetectCommand(t *testing.T) {
	tests := map[string]string{
		"pocx1qfycvpqwhpf5jct5tmd090u4cxy9gleppquaasl": "bech32",
		"1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH":           "base58",
		"invalid":                                      "none",
	}

	for addr, format := range tests {
		out, err := runApp(t, nil, "detect", addr)
		require.NoError(t, err)

		var resp map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Equal(t, format, resp["format"], addr)
	}
}

// TestWIFCommand checks that a WIF key is expanded into its addresses.
func TestWIFCommand(t *testing.T) {
	out, err := runApp(
		t, nil, "wif", "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn",
	)
	require.NoError(t, err)

	var info keyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(
		t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		info.PubKey,
	)
	require.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", info.Payload)

	_, err = runApp(t, nil, "wif", "notawif")
	require.ErrorIs(t, err, keychain.ErrInvalidWIF)
}

// TestMnemonicCommand checks mnemonic generation from the entropy source.
func TestMnemonicCommand(t *testing.T) {
	out, err := runApp(t, bytes.NewReader(make([]byte, 16)), "mnemonic")
	require.NoError(t, err)
	require.Equal(t, testMnemonic+"\n", out)
}

// TestDescriptorCommand checks adding and verifying checksums.
func TestDescriptorCommand(t *testing.T) {
	out, err := runApp(t, nil, "descriptor", "raw(deadbeef)")
	require.NoError(t, err)
	require.Equal(t, "raw(deadbeef)#89f8spxm\n", out)

	out, err = runApp(t, nil, "descriptor", "raw(deadbeef)#89f8spxm")
	require.NoError(t, err)
	require.Contains(t, out, "checksum valid")

	_, err = runApp(t, nil, "descriptor", "raw(deadbeef)#89f8spxq")
	require.ErrorIs(t, err, descriptor.ErrChecksumMismatch)
}

// TestConfigFile checks that the config file selects the network and that
// flags take precedence over it.
func TestConfigFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "pocxaddr.conf")
	require.NoError(t, os.WriteFile(
		cfgFile, []byte("[Application Options]\nnetwork=testnet\n"),
		0600,
	))

	out, err := runApp(
		t, bytes.NewReader(keyOne), "--configfile", cfgFile,
	)
	require.NoError(t, err)
	require.Contains(t, out, "Bech32: tpocx1q")

	out, err = runApp(
		t, bytes.NewReader(keyOne), "--configfile", cfgFile,
		"--network", "mainnet",
	)
	require.NoError(t, err)
	require.Contains(t, out, "Bech32: pocx1q")
}

// TestInvalidSettings checks that bad global settings abort the run.
func TestInvalidSettings(t *testing.T) {
	for _, args := range [][]string{
		{"--network", "simnet"},
		{"--hrp", "PoCx"},
		{"--base58version", "256"},
		{"--debuglevel", "loud"},
		{"--debuglevel", "NOPE=debug"},
	} {
		_, err := runApp(t, bytes.NewReader(keyOne), args...)
		require.Error(t, err, args)
	}
}

// TestDescriptorCommandBuild checks the addr() and key descriptors built by
// the descriptor command.
func TestDescriptorCommandBuild(t *testing.T) {
	const pocxAddr = "pocx1qfycvpqwhpf5jct5tmd090u4cxy9gleppquaasl"

	out, err := runApp(t, nil, "descriptor", "--addr", pocxAddr)
	require.NoError(t, err)

	want, err := descriptor.Addr(pocxAddr)
	require.NoError(t, err)
	require.Equal(t, want+"\n", out)
	require.True(t, strings.HasPrefix(out, "addr("+pocxAddr+")#"))

	_, err = runApp(t, nil, "descriptor", "--addr", "invalid")
	require.ErrorIs(t, err, address.ErrUnknownFormat)

	key, err := keychain.PrivKeyFromBytes(keyOne)
	require.NoError(t, err)
	pub := key.PubKey()

	out, err = runApp(t, nil, "descriptor", "--pubkey", pub.Hex())
	require.NoError(t, err)
	require.Equal(
		t, descriptor.WPKH(pub)+"\n"+descriptor.PKH(pub)+"\n", out,
	)

	// Not a point on the curve.
	_, err = runApp(
		t, nil, "descriptor", "--pubkey", "02"+strings.Repeat("00", 32),
	)
	require.Error(t, err)

	_, err = runApp(t, nil, "descriptor", "--pubkey", "zz")
	require.Error(t, err)

	_, err = runApp(
		t, nil, "descriptor", "--addr", pocxAddr, "--pubkey", pub.Hex(),
	)
	require.Error(t, err)
}
