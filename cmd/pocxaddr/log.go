package main

import (
	"io"

	"github.com/btcsuite/btclog/v2"
	"github.com/pocxnet/pocxaddr/address"
	"github.com/pocxnet/pocxaddr/build"
	"github.com/pocxnet/pocxaddr/keychain"
	"github.com/pocxnet/pocxaddr/pocxcfg"
)

// Subsystem is the logging code of the command line tool itself.
const Subsystem = "PXAD"

// log is the tool's own logger. It stays disabled until setupLoggers runs.
var log = btclog.Disabled

// setupLoggers creates a console handler from the config, registers every
// package's sub logger with it and applies the configured debug levels.
func setupLoggers(cfg *pocxcfg.Config,
	w io.Writer) (*build.SubLoggerManager, error) {

	root := build.NewSubLoggerManager(
		build.NewConsoleHandler(cfg.LogConfig, w),
	)

	AddSubLogger(root, Subsystem, func(l btclog.Logger) {
		log = l
	})
	AddSubLogger(root, address.Subsystem, address.UseLogger)
	AddSubLogger(root, keychain.Subsystem, keychain.UseLogger)
	AddSubLogger(root, pocxcfg.Subsystem, pocxcfg.UseLogger)

	if cfg.DebugLevel == "show" {
		return root, nil
	}

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, root)
	if err != nil {
		return nil, err
	}

	return root, nil
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	root.RegisterSubLogger(subsystem, logger)

	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
