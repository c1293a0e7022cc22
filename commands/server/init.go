package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// GenesisFile is the name of the genesis file inside the home
	// directory.
	GenesisFile = "genesis.json"

	flagHome    = "home"
	flagChainID = "chain-id"
)

// InitCmd will initialize the home directory with a default configuration
// and a genesis file carrying the app_state generated by gen.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	var chainID string
	cmd := &cobra.Command{
		Use:   "init [args]",
		Short: "Initialize configuration and genesis files",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			return InitHome(home, chainID, gen, logger, args)
		},
	}
	cmd.Flags().StringVar(&chainID, flagChainID, "escrowd-dev", "chain id written to a new genesis file")
	return cmd
}

// InitHome writes the default configuration if none exists, and sets the
// app_state of the genesis file. A new genesis file is created if needed.
func InitHome(home, chainID string, gen GenOptions, logger log.Logger, args []string) error {
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(err, "create home directory")
	}

	confPath := filepath.Join(home, ConfigFile)
	if fileExists(confPath) {
		logger.Info("Found config file", "path", confPath)
	} else {
		if err := WriteConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", confPath)
	}

	genPath := filepath.Join(home, GenesisFile)
	if !fileExists(genPath) {
		if !weave.IsValidChainID(chainID) {
			return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
		}
		doc := GenesisDoc{}
		if err := doc.set("chain_id", chainID); err != nil {
			return err
		}
		if err := doc.set("genesis_time", time.Now().UTC()); err != nil {
			return err
		}
		if err := doc.save(genPath); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genPath)
	}

	if gen == nil {
		return nil
	}
	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genPath, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func (d GenesisDoc) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize %s: %s", key, err)
	}
	d[key] = raw
	return nil
}

func (d GenesisDoc) save(filename string) error {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize genesis: %s", err)
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(err, "write genesis file")
	}
	return nil
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis file")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	doc["app_state"] = options
	return doc.save(filename)
}
