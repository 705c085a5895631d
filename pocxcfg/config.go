package pocxcfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/build"
	"github.com/pocxnet/pocxaddr/keychain"
	"github.com/pocxnet/pocxaddr/netparams"
)

const (
	// DefaultConfigFilename is the name of the config file inside the
	// application directory.
	DefaultConfigFilename = "pocxaddr.conf"

	// defaultNetwork is the network used when none is configured.
	defaultNetwork = "mainnet"

	// defaultDebugLevel is the log level used when none is configured.
	defaultDebugLevel = "info"
)

var (
	// DefaultAppDir is the default directory holding the config file.
	DefaultAppDir = btcutil.AppDataDir("pocxaddr", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(DefaultAppDir, DefaultConfigFilename)
)

// Config holds the settings that select the network addresses and keys are
// produced for.
//
//nolint:lll
type Config struct {
	ConfigFile string `long:"configfile" description:"Path to configuration file"`

	Network string `long:"network" description:"The network to produce addresses for: mainnet or testnet"`

	Base58Version string `long:"base58version" description:"Override the Base58Check version byte of the network, e.g. 0x55"`

	HRP string `long:"hrp" description:"Override the human-readable part of segwit addresses of the network"`

	DerivationPath string `long:"derivationpath" description:"BIP32 path used when deriving keys from a mnemonic; defaults to the first BIP84 key of the network"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`

	LogConfig *build.LogConfig `group:"logging" namespace:"logging"`

	// activeNet is the network resolved by Validate, with any overrides
	// applied.
	activeNet *netparams.Params
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		ConfigFile: DefaultConfigFile,
		Network:    defaultNetwork,
		DebugLevel: defaultDebugLevel,
		LogConfig:  build.DefaultLogConfig(),
	}
}

// LoadConfig returns the default config overlaid with the options of the
// config file at path. A missing file is not an error, a malformed one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.ConfigFile = CleanAndExpandPath(path)

	if err := flags.IniParse(cfg.ConfigFile, &cfg); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		if _, ok := err.(*flags.IniError); ok {
			return nil, err
		}

		log.Debugf("Not using config file: %v", err)
	}

	return &cfg, nil
}

// Validate checks the config for sane values and resolves the active
// network. It must be called before ActiveNet.
func (c *Config) Validate() error {
	if c.LogConfig == nil {
		c.LogConfig = build.DefaultLogConfig()
	}
	if err := c.LogConfig.Validate(); err != nil {
		return err
	}

	base, err := netparams.ParamsForNetwork(c.Network)
	if err != nil {
		return err
	}

	// Work on a copy so overrides never leak into the presets.
	params := *base

	if c.Base58Version != "" {
		version, err := strconv.ParseUint(
			strings.TrimSpace(c.Base58Version), 0, 8,
		)
		if err != nil {
			return fmt.Errorf("invalid base58version %q: %w",
				c.Base58Version, err)
		}
		params.Base58Version = byte(version)
	}

	if c.HRP != "" {
		// Encoding a dummy payload checks the hrp as well as the
		// length limit of the resulting addresses.
		_, err := address.Encode(
			make([]byte, address.PayloadLen),
			address.Bech32Net(c.HRP),
		)
		if err != nil {
			return fmt.Errorf("invalid hrp %q: %w", c.HRP, err)
		}
		params.Bech32HRP = c.HRP
	}

	if c.DerivationPath != "" {
		if _, err := keychain.ParsePath(c.DerivationPath); err != nil {
			return err
		}
	}

	c.activeNet = &params

	log.Debugf("Active network %v: base58 version 0x%02x, hrp %v",
		params.Name, params.Base58Version, params.Bech32HRP)

	return nil
}

// ActiveNet returns the network resolved by Validate, or nil if Validate
// has not succeeded yet.
func (c *Config) ActiveNet() *netparams.Params {
	return c.activeNet
}

// KeyPath returns the configured derivation path, or the default path of the
// active network if none was set.
func (c *Config) KeyPath() string {
	if c.DerivationPath != "" {
		return c.DerivationPath
	}

	if c.activeNet == nil {
		return keychain.DefaultDerivationPath
	}

	return c.activeNet.DerivationPath()
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
