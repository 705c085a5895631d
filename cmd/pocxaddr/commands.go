package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/descriptor"
	"github.com/pocxnet/pocxaddr/keychain"
	"github.com/pocxnet/pocxaddr/netparams"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

// disclaimer is printed after the addresses of the default command.
const disclaimer = "Test addresses only - not for production use."

func printJSON(w io.Writer, resp interface{}) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "\t"); err != nil {
		return err
	}
	out.WriteString("\n")

	_, err = out.WriteTo(w)

	return err
}

// keyInfo is everything the tool reports about a key.
type keyInfo struct {
	Network        string `json:"network"`
	Mnemonic       string `json:"mnemonic,omitempty"`
	Path           string `json:"path,omitempty"`
	WIF            string `json:"wif"`
	PubKey         string `json:"pubkey"`
	Payload        string `json:"payload"`
	Base58Address  string `json:"base58_address"`
	Bech32Address  string `json:"bech32_address"`
	WPKHDescriptor string `json:"wpkh_descriptor"`
	PKHDescriptor  string `json:"pkh_descriptor"`
}

// newKeyInfo derives the addresses and descriptors of key on net.
func newKeyInfo(key keychain.PrivateKey,
	net *netparams.Params) (*keyInfo, error) {

	pub := key.PubKey()
	payload := pub.AddressPayload()

	base58Addr, err := address.Encode(payload[:], net.Base58())
	if err != nil {
		return nil, err
	}

	bech32Addr, err := address.Encode(payload[:], net.Bech32())
	if err != nil {
		return nil, err
	}

	return &keyInfo{
		Network:        net.Name,
		WIF:            key.WIF(net.Base58Version),
		PubKey:         pub.Hex(),
		Payload:        hex.EncodeToString(payload[:]),
		Base58Address:  base58Addr,
		Bech32Address:  bech32Addr,
		WPKHDescriptor: descriptor.WPKH(pub),
		PKHDescriptor:  descriptor.PKH(pub),
	}, nil
}

// rows returns the non-empty fields of the key info in display order.
func (k *keyInfo) rows() []table.Row {
	fields := []struct {
		name  string
		value string
	}{
		{"Network", k.Network},
		{"Mnemonic", k.Mnemonic},
		{"Path", k.Path},
		{"Private key (WIF)", k.WIF},
		{"Public key", k.PubKey},
		{"Payload (hash160)", k.Payload},
		{"Base58 address", k.Base58Address},
		{"Bech32 address", k.Bech32Address},
		{"wpkh descriptor", k.WPKHDescriptor},
		{"pkh descriptor", k.PKHDescriptor},
	}

	rows := make([]table.Row, 0, len(fields))
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		rows = append(rows, table.Row{field.name, field.value})
	}

	return rows
}

// printKeyTable renders the key info as a two column table. Terminals get
// the box drawing style, pipes and files plain ASCII.
func printKeyTable(w io.Writer, info *keyInfo) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	style := table.StyleDefault
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		style = table.StyleRounded
	}
	tw.SetStyle(style)

	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows(info.rows())
	tw.Render()
}

// generateDefault generates one random key and prints its Base58 and Bech32
// addresses on the active network.
func generateDefault(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("unknown command %q", ctx.Args().First())
	}

	s := getSettings(ctx)

	key, err := keychain.GenerateRandom(s.entropy)
	if err != nil {
		return err
	}

	info, err := newKeyInfo(key, s.net)
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	fmt.Fprintln(w, "Address generation for testing purposes.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Base58: %s\n", info.Base58Address)
	fmt.Fprintf(w, "Bech32: %s\n", info.Bech32Address)
	fmt.Fprintln(w)
	fmt.Fprintln(w, disclaimer)

	return nil
}

var generateCommand = cli.Command{
	Name:  "generate",
	Usage: "Generate a key and print its addresses and descriptors.",
	Description: `
	Generate a new private key and print its WIF encoding, public key,
	address payload, both address encodings and output descriptors for
	the active network.

	With --mnemonic the key is derived from the given BIP39 mnemonic at
	--path instead. With --newmnemonic a fresh 12 word mnemonic is
	generated first and printed along with the key.
	`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "mnemonic",
			Usage: "derive the key from this BIP39 mnemonic",
		},
		cli.BoolFlag{
			Name:  "newmnemonic",
			Usage: "generate a new mnemonic and derive the key from it",
		},
		cli.StringFlag{
			Name: "path",
			Usage: "the BIP32 derivation path, defaults to the " +
				"first BIP84 key of the network",
		},
		cli.StringFlag{
			Name:  "passphrase",
			Usage: "the optional BIP39 passphrase",
		},
		cli.BoolFlag{
			Name:  "json",
			Usage: "print the result as JSON instead of a table",
		},
	},
	Action: generate,
}

func generate(ctx *cli.Context) error {
	s := getSettings(ctx)

	if ctx.IsSet("mnemonic") && ctx.Bool("newmnemonic") {
		return fmt.Errorf("--mnemonic and --newmnemonic are mutually " +
			"exclusive")
	}

	mnemonic := ctx.String("mnemonic")
	if ctx.Bool("newmnemonic") {
		var err error
		mnemonic, err = keychain.NewMnemonic(s.entropy)
		if err != nil {
			return err
		}
	}

	var (
		key  keychain.PrivateKey
		path string
		err  error
	)
	switch {
	case mnemonic != "":
		path = s.cfg.KeyPath()
		if ctx.IsSet("path") {
			path = ctx.String("path")
		}

		key, err = keychain.FromMnemonic(
			mnemonic, ctx.String("passphrase"), path,
		)

	case ctx.IsSet("path") || ctx.IsSet("passphrase"):
		return fmt.Errorf("--path and --passphrase require a mnemonic")

	default:
		key, err = keychain.GenerateRandom(s.entropy)
	}
	if err != nil {
		return err
	}

	info, err := newKeyInfo(key, s.net)
	if err != nil {
		return err
	}
	info.Path = path

	// A mnemonic passed in by the user is not echoed back.
	if ctx.Bool("newmnemonic") {
		info.Mnemonic = mnemonic
	}

	log.Debugf("Generated key for payload %v", info.Payload)

	if ctx.Bool("json") {
		return printJSON(ctx.App.Writer, info)
	}

	printKeyTable(ctx.App.Writer, info)

	return nil
}

var encodeCommand = cli.Command{
	Name:      "encode",
	Usage:     "Encode a 20 byte payload as an address.",
	ArgsUsage: "--payload=<hex> [--format=base58|bech32]",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "payload",
			Usage: "the hex encoded 20 byte public key hash",
		},
		cli.StringFlag{
			Name: "format",
			Usage: "only print the address of this format, " +
				"base58 or bech32",
		},
	},
	Action: encode,
}

type encodeResponse struct {
	Base58Address string `json:"base58_address,omitempty"`
	Bech32Address string `json:"bech32_address,omitempty"`
}

func encode(ctx *cli.Context) error {
	if !ctx.IsSet("payload") {
		return cli.ShowCommandHelp(ctx, "encode")
	}

	s := getSettings(ctx)

	payload, err := hex.DecodeString(ctx.String("payload"))
	if err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	var nets []address.NetworkID
	switch strings.ToLower(ctx.String("format")) {
	case "":
		nets = []address.NetworkID{s.net.Base58(), s.net.Bech32()}

	case address.FormatBase58.String():
		nets = []address.NetworkID{s.net.Base58()}

	case address.FormatBech32.String():
		nets = []address.NetworkID{s.net.Bech32()}

	default:
		return fmt.Errorf("%w: %q", address.ErrUnknownFormat,
			ctx.String("format"))
	}

	var resp encodeResponse
	for _, net := range nets {
		addr, err := address.Encode(payload, net)
		if err != nil {
			return err
		}

		switch net.Format() {
		case address.FormatBase58:
			resp.Base58Address = addr

		case address.FormatBech32:
			resp.Bech32Address = addr
		}
	}

	return printJSON(ctx.App.Writer, resp)
}

var decodeCommand = cli.Command{
	Name:      "decode",
	Usage:     "Decode an address into its payload and network.",
	ArgsUsage: "address",
	Action:    decode,
}

type decodeResponse struct {
	Format         string `json:"format"`
	Payload        string `json:"payload"`
	Version        *byte  `json:"version,omitempty"`
	HRP            string `json:"hrp,omitempty"`
	WitnessVersion *byte  `json:"witness_version,omitempty"`
	Network        string `json:"network,omitempty"`
}

// matchNetwork returns the name of the preset net belongs to, if any.
func matchNetwork(net address.NetworkID) fn.Option[string] {
	for _, name := range netparams.Networks() {
		params, err := netparams.ParamsForNetwork(name)
		if err != nil {
			continue
		}

		if params.Base58() == net || params.Bech32() == net {
			return fn.Some(params.Name)
		}
	}

	return fn.None[string]()
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "decode")
	}
	addr := ctx.Args().First()

	payload, net, err := address.Decode(addr)
	if err != nil {
		return err
	}

	resp := decodeResponse{
		Format:  net.Format().String(),
		Payload: hex.EncodeToString(payload[:]),
		Network: matchNetwork(net).UnwrapOr(""),
	}

	switch n := net.(type) {
	case address.Base58Net:
		version := byte(n)
		resp.Version = &version

	case address.Bech32Net:
		resp.HRP = string(n)

		witness, err := address.DecodeSegwit(addr)
		if err != nil {
			return err
		}
		resp.WitnessVersion = &witness.Version
	}

	return printJSON(ctx.App.Writer, resp)
}

var detectCommand = cli.Command{
	Name:      "detect",
	Usage:     "Report the format of an address.",
	ArgsUsage: "address",
	Action:    detect,
}

func detect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "detect")
	}

	format := fn.MapOptionZ(
		address.DetectFormat(ctx.Args().First()), address.Format.String,
	)
	if format == "" {
		format = "none"
	}

	return printJSON(ctx.App.Writer, map[string]string{"format": format})
}

var wifCommand = cli.Command{
	Name:      "wif",
	Usage:     "Show the public key and addresses of a WIF private key.",
	ArgsUsage: "wif",
	Action:    wif,
}

func wif(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "wif")
	}

	s := getSettings(ctx)

	key, version, err := keychain.ParseWIF(ctx.Args().First())
	if err != nil {
		return err
	}

	if version != s.net.WIFVersion() {
		log.Warnf("WIF prefix 0x%02x does not belong to network %v",
			version, s.net.Name)
	}

	info, err := newKeyInfo(key, s.net)
	if err != nil {
		return err
	}

	return printJSON(ctx.App.Writer, info)
}

var mnemonicCommand = cli.Command{
	Name:   "mnemonic",
	Usage:  "Generate a new 12 word BIP39 mnemonic.",
	Action: newMnemonic,
}

func newMnemonic(ctx *cli.Context) error {
	words, err := keychain.NewMnemonic(getSettings(ctx).entropy)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, words)

	return nil
}

var descriptorCommand = cli.Command{
	Name:      "descriptor",
	Usage:     "Build an output descriptor or check its checksum.",
	ArgsUsage: "[descriptor] [--addr=<address>] [--pubkey=<hex>]",
	Description: `
	With --addr an addr() descriptor is built for the address, with
	--pubkey the wpkh() and pkh() descriptors of the compressed public
	key are printed.

	Otherwise the descriptor argument is checked: if it carries a
	"#checksum" suffix it is verified, else it is printed with its
	checksum appended.
	`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "addr",
			Usage: "build an addr() descriptor for this address",
		},
		cli.StringFlag{
			Name: "pubkey",
			Usage: "build wpkh() and pkh() descriptors for this " +
				"hex encoded compressed public key",
		},
	},
	Action: descriptorCmd,
}

func descriptorCmd(ctx *cli.Context) error {
	w := ctx.App.Writer

	switch {
	case ctx.IsSet("addr") && ctx.IsSet("pubkey"):
		return fmt.Errorf("--addr and --pubkey are mutually exclusive")

	case ctx.IsSet("addr"):
		desc, err := descriptor.Addr(ctx.String("addr"))
		if err != nil {
			return err
		}

		fmt.Fprintln(w, desc)

		return nil

	case ctx.IsSet("pubkey"):
		raw, err := hex.DecodeString(ctx.String("pubkey"))
		if err != nil {
			return fmt.Errorf("unable to decode pubkey: %w", err)
		}

		pub, err := keychain.ParsePubKey(raw)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, descriptor.WPKH(pub))
		fmt.Fprintln(w, descriptor.PKH(pub))

		return nil
	}

	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "descriptor")
	}
	desc := ctx.Args().First()

	if strings.Contains(desc, "#") {
		if err := descriptor.Verify(desc); err != nil {
			return err
		}

		fmt.Fprintf(w, "%s: checksum valid\n", desc)

		return nil
	}

	withSum, err := descriptor.AddChecksum(desc)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, withSum)

	return nil
}
