package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pocxnet/pocxaddr/build"
	"github.com/pocxnet/pocxaddr/netparams"
	"github.com/pocxnet/pocxaddr/pocxcfg"
	"github.com/urfave/cli"
)

// settingsKey is the app metadata key holding the resolved settings.
const settingsKey = "settings"

// settings is what the Before hook resolves from the config file and the
// global flags, shared by every command.
type settings struct {
	cfg     *pocxcfg.Config
	net     *netparams.Params
	loggers *build.SubLoggerManager

	// entropy is the randomness source for keys and mnemonics.
	entropy io.Reader
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[pocxaddr] %v\n", err)
	os.Exit(1)
}

// getSettings returns the settings resolved by loadSettings.
func getSettings(ctx *cli.Context) *settings {
	return ctx.App.Metadata[settingsKey].(*settings)
}

// loadSettings reads the config file, lets the global flags override it and
// sets up logging. Command line flags always take precedence over the file.
func loadSettings(ctx *cli.Context) error {
	cfg, err := pocxcfg.LoadConfig(ctx.GlobalString("configfile"))
	if err != nil {
		return err
	}

	if ctx.GlobalIsSet("network") {
		cfg.Network = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("base58version") {
		cfg.Base58Version = ctx.GlobalString("base58version")
	}
	if ctx.GlobalIsSet("hrp") {
		cfg.HRP = ctx.GlobalString("hrp")
	}
	if ctx.GlobalIsSet("debuglevel") {
		cfg.DebugLevel = ctx.GlobalString("debuglevel")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	loggers, err := setupLoggers(cfg, os.Stderr)
	if err != nil {
		return err
	}

	s := getSettings(ctx)
	s.cfg = cfg
	s.net = cfg.ActiveNet()
	s.loggers = loggers

	// Listing the subsystems ends the invocation, like --version does.
	if cfg.DebugLevel == "show" {
		fmt.Fprintf(ctx.App.Writer, "Supported subsystems: %v\n",
			strings.Join(loggers.SupportedSubsystems(), " "))

		return cli.NewExitError("", 0)
	}

	log.Debugf("Using network %v (base58 version 0x%02x, hrp %v)",
		s.net.Name, s.net.Base58Version, s.net.Bech32HRP)

	return nil
}

// newApp assembles the command line application. Keys and mnemonics are
// drawn from entropy.
func newApp(entropy io.Reader) *cli.App {
	app := cli.NewApp()
	app.Name = "pocxaddr"
	app.Version = build.Version() + " commit=" + build.Commit
	app.Usage = "generate and inspect PoCX addresses and keys"
	app.Metadata = map[string]interface{}{
		settingsKey: &settings{entropy: entropy},
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Value:     pocxcfg.DefaultConfigFile,
			Usage:     "The path to the config file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network to produce addresses for, one of " +
				strings.Join(netparams.Networks(), ", ") +
				" (default: mainnet).",
		},
		cli.StringFlag{
			Name: "base58version",
			Usage: "Override the Base58Check version byte of the " +
				"network, e.g. 0x55.",
		},
		cli.StringFlag{
			Name: "hrp",
			Usage: "Override the human-readable part of the " +
				"network's segwit addresses.",
		},
		cli.StringFlag{
			Name: "debuglevel, d",
			Usage: "Logging level for all subsystems, or " +
				"<global-level>,<subsystem>=<level>,... Use " +
				"show to list the subsystems.",
		},
	}
	app.Before = loadSettings
	app.Action = generateDefault
	app.Commands = []cli.Command{
		generateCommand,
		encodeCommand,
		decodeCommand,
		detectCommand,
		wifCommand,
		mnemonicCommand,
		descriptorCommand,
	}

	return app
}

func main() {
	if err := newApp(rand.Reader).Run(os.Args); err != nil {
		fatal(err)
	}
}
