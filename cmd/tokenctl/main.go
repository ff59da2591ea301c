package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/validator"
	"github.com/cashtokens/cashtokend/domain/utxoindex"
	"github.com/cashtokens/cashtokend/infrastructure/logger"
	"github.com/cashtokens/cashtokend/version"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(err)
	}

	if cfg.ShowVersion {
		fmt.Printf("tokenctl version %s\n", version.Version())
		return
	}

	if cfg.LogDir != "" {
		logger.InitLog(filepath.Join(cfg.LogDir, "tokenctl.log"), filepath.Join(cfg.LogDir, "tokenctl_err.log"))
	}
	logLevel, ok := logger.LevelFromString(cfg.LogLevel)
	if !ok {
		printErrorAndExit(errors.Errorf("invalid log level %q", cfg.LogLevel))
	}
	logger.SetLogLevels(logLevel)

	engine, err := validator.New(&validator.Config{
		MaxCommitmentLength: cfg.MaxCommitmentLength,
		MaxAmount:           cfg.MaxAmount,
		DustThreshold:       cfg.DustThreshold,
	})
	if err != nil {
		printErrorAndExit(err)
	}

	var index *utxoindex.Index
	if cfg.UTXOIndexDir != "" {
		index, err = utxoindex.Open(cfg.UTXOIndexDir)
		if err != nil {
			printErrorAndExit(err)
		}
		defer index.Close()
	}

	if cfg.StoreFile != "" {
		err := storeUTXOs(cfg.StoreFile, index)
		if err != nil {
			printErrorAndExit(err)
		}
		return
	}

	transactions, err := loadTransactions(cfg)
	if err != nil {
		printErrorAndExit(err)
	}

	if index != nil {
		for _, tx := range transactions {
			err := utxoindex.PopulateTransaction(index, tx)
			if err != nil {
				printErrorAndExit(err)
			}
		}
	}

	reports := validateAll(engine, transactions)

	allAccepted := true
	for _, report := range reports {
		if !report.Accepted {
			allAccepted = false
		}
	}

	var output []byte
	if cfg.Batch {
		output, err = json.MarshalIndent(reports, "", "  ")
	} else {
		output, err = json.MarshalIndent(reports[0], "", "  ")
	}
	if err != nil {
		printErrorAndExit(errors.WithStack(err))
	}
	fmt.Println(string(output))

	if !allAccepted {
		os.Exit(1)
	}
}

// validateAll validates all the given transactions and returns their reports
// in input order. Validation is stateless, so batches run concurrently, one
// goroutine per transaction.
func validateAll(engine *validator.Validator, transactions []*externalapi.DomainTransaction) []*verdictReportJSON {
	reports := make([]*verdictReportJSON, len(transactions))
	var wg sync.WaitGroup
	for i, tx := range transactions {
		i, tx := i, tx
		wg.Add(1)
		spawn(func() {
			defer wg.Done()
			reports[i] = reportToJSON(tx, engine.Validate(tx))
		})
	}
	wg.Wait()
	return reports
}

func loadTransactions(cfg *configFlags) ([]*externalapi.DomainTransaction, error) {
	var input []byte
	var err error
	switch {
	case cfg.TransactionJSON != "":
		input = []byte(cfg.TransactionJSON)
	case cfg.TransactionFile != "":
		input, err = ioutil.ReadFile(cfg.TransactionFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		input, err = ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	var transactionsJSON []*transactionJSON
	if cfg.Batch {
		err = json.Unmarshal(input, &transactionsJSON)
	} else {
		single := &transactionJSON{}
		err = json.Unmarshal(input, single)
		transactionsJSON = []*transactionJSON{single}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse the transaction input")
	}
	if len(transactionsJSON) == 0 {
		return nil, errors.New("no transactions to validate")
	}

	transactions := make([]*externalapi.DomainTransaction, 0, len(transactionsJSON))
	for _, txJSON := range transactionsJSON {
		tx, err := txJSON.toDomain()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func storeUTXOs(storeFile string, index *utxoindex.Index) error {
	input, err := ioutil.ReadFile(storeFile)
	if err != nil {
		return errors.WithStack(err)
	}
	var storedUTXOs []*storedUTXOJSON
	err = json.Unmarshal(input, &storedUTXOs)
	if err != nil {
		return errors.Wrap(err, "failed to parse the UTXO input")
	}

	for i, storedUTXO := range storedUTXOs {
		transactionID, err := externalapi.NewTransactionIDFromString(storedUTXO.TransactionID)
		if err != nil {
			return errors.Wrapf(err, "invalid transaction id on UTXO %d", i)
		}
		if storedUTXO.UTXOEntry == nil {
			return errors.Errorf("UTXO %d has no entry", i)
		}
		entry, err := storedUTXO.UTXOEntry.toDomain()
		if err != nil {
			return errors.Wrapf(err, "invalid UTXO entry on UTXO %d", i)
		}
		outpoint := &externalapi.DomainOutpoint{
			TransactionID: *transactionID,
			Index:         storedUTXO.Index,
		}
		err = index.Put(outpoint, entry)
		if err != nil {
			return err
		}
	}
	log.Infof("Stored %d UTXO entries", len(storedUTXOs))
	fmt.Printf("Stored %d UTXO entries\n", len(storedUTXOs))
	return nil
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "tokenctl: %s\n", err)
	os.Exit(1)
}
