package main

import (
	"github.com/cashtokens/cashtokend/domain/tokenengine/utils/constants"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type configFlags struct {
	TransactionFile     string `short:"f" long:"file" description:"File holding the transaction to validate in JSON format (defaults to stdin)"`
	TransactionJSON     string `short:"j" long:"json" description:"The transaction to validate in JSON format"`
	Batch               bool   `long:"batch" description:"Treat the input as a JSON array of transactions and validate them concurrently"`
	UTXOIndexDir        string `short:"u" long:"utxoindex" description:"Directory of the UTXO index used to resolve inputs that don't carry their previous output inline"`
	StoreFile           string `long:"store" description:"File holding a JSON array of UTXO entries to insert into the UTXO index, then exit"`
	LogDir              string `long:"logdir" description:"Directory to write rotated log files into (logging is off without it)"`
	LogLevel            string `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`
	MaxCommitmentLength int    `long:"maxcommitmentlength" description:"Maximum NFT commitment length in bytes" default:"40"`
	MaxAmount           uint64 `long:"maxamount" description:"Maximum fungible token amount (0 means the protocol maximum)"`
	DustThreshold       uint64 `long:"dustthreshold" description:"Satoshi value under which token-carrying outputs draw a warning" default:"546"`
	ShowVersion         bool   `short:"V" long:"version" description:"Display version information and exit"`
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.HelpFlag)
	parser.Usage = "tokenctl [OPTIONS]\n\nValidates the token state transition of a transaction " +
		"whose inputs carry (or can be resolved to) their previous outputs."
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfg.TransactionFile != "" && cfg.TransactionJSON != "" {
		return nil, errors.New("at most one of --file or --json may be specified")
	}
	if cfg.StoreFile != "" && cfg.UTXOIndexDir == "" {
		return nil, errors.New("--store requires --utxoindex")
	}
	if cfg.MaxAmount == 0 {
		cfg.MaxAmount = constants.MaxTokenAmount
	}
	return cfg, nil
}
