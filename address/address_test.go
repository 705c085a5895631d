package address

import (
	"errors"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestDetectFormat checks detection of known strings.
func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		addr   string
		format fn.Option[Format]
	}{
		{
			name:   "empty",
			addr:   "",
			format: fn.None[Format](),
		},
		{
			name:   "invalid",
			addr:   "invalid",
			format: fn.None[Format](),
		},
		{
			name:   "pocx bech32",
			addr:   pocxAddr,
			format: fn.Some(FormatBech32),
		},
		{
			name:   "bitcoin base58",
			addr:   "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
			format: fn.Some(FormatBase58),
		},
		{
			name:   "uppercase bech32",
			addr:   "BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4",
			format: fn.Some(FormatBech32),
		},
		{
			name:   "wrong program length",
			addr:   "bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0",
			format: fn.None[Format](),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.format, DetectFormat(test.addr))
		})
	}
}

// TestDetectFormatDisjoint asserts that the output of each encoder is
// classified as its own format.
func TestDetectFormatDisjoint(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), PayloadLen, PayloadLen).
			Draw(t, "payload")
		version := rapid.Byte().Draw(t, "version")
		hrp := hrpGen(true).Draw(t, "hrp")

		var payload [PayloadLen]byte
		copy(payload[:], raw)

		b58 := EncodeBase58(payload, version)
		require.Equal(t, fn.Some(FormatBase58), DetectFormat(b58))

		b32, err := EncodeBech32(payload, hrp)
		require.NoError(t, err)
		require.Equal(t, fn.Some(FormatBech32), DetectFormat(b32))
	})
}

// TestEncodeDecode checks that the facade dispatches on the network variant
// and returns the network the address was encoded for.
func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		net  NetworkID
		addr string
	}{
		{
			name: "base58",
			net:  Base58Net(0x00),
			addr: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
		},
		{
			name: "bech32",
			net:  Bech32Net("bc"),
			addr: "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		},
		{
			name: "bech32 uppercase",
			net:  Bech32Net("BC"),
			addr: "BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			addr, err := Encode(keyOneHash[:], test.net)
			require.NoError(t, err)
			require.Equal(t, test.addr, addr)

			payload, net, err := Decode(addr)
			require.NoError(t, err)
			require.Equal(t, keyOneHash, payload)
			require.Equal(t, test.net, net)
			require.Equal(t, test.net.Format(), net.Format())
		})
	}
}

// TestFacadeRoundTrip asserts Decode inverts Encode for both variants.
func TestFacadeRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), PayloadLen, PayloadLen).
			Draw(t, "payload")

		var net NetworkID
		if rapid.Bool().Draw(t, "bech32") {
			net = Bech32Net(hrpGen(true).Draw(t, "hrp"))
		} else {
			net = Base58Net(rapid.Byte().Draw(t, "version"))
		}

		addr, err := Encode(payload, net)
		require.NoError(t, err)

		gotPayload, gotNet, err := Decode(addr)
		require.NoError(t, err)
		require.Equal(t, payload, gotPayload[:])
		require.Equal(t, net, gotNet)
	})
}

// TestEncodeInvalid covers the facade's own validation.
func TestEncodeInvalid(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 19, 21, 32} {
		_, err := Encode(make([]byte, n), Base58Net(0x55))

		var lengthErr *InvalidLengthError
		require.True(t, errors.As(err, &lengthErr), err)
		require.Equal(t, &InvalidLengthError{
			Expected: PayloadLen,
			Actual:   n,
		}, lengthErr)
	}

	_, err := Encode(keyOneHash[:], nil)
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Encode(keyOneHash[:], Bech32Net("Po Cx"))
	require.ErrorIs(t, err, ErrInvalidHRP)
}

// TestDecodeUnknown checks that strings in neither format are rejected.
func TestDecodeUnknown(t *testing.T) {
	t.Parallel()

	for _, addr := range []string{"", "invalid", "pocx1", "0x1234"} {
		_, net, err := Decode(addr)
		require.ErrorIs(t, err, ErrUnknownFormat, addr)
		require.Nil(t, net)
	}
}

// TestNetworkIDString checks the printable form of both variants.
func TestNetworkIDString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "base58(0x55)", Base58Net(0x55).String())
	require.Equal(t, "bech32(pocx)", Bech32Net("pocx").String())
	require.Equal(t, "base58", FormatBase58.String())
	require.Equal(t, "bech32", FormatBech32.String())
	require.Equal(t, "unknown(7)", Format(7).String())
}
