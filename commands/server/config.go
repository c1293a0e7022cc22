package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/escrowd/errors"
)

// ConfigFile is the name of the configuration file inside the home
// directory.
const ConfigFile = "escrowd.toml"

// Config is the daemon configuration. Command line flags take precedence
// over the values in the file.
type Config struct {
	// ABCIAddress is the address the ABCI socket server listens on.
	ABCIAddress string `toml:"abci_address"`
	// MetricsAddress is the address of the prometheus endpoint. Metrics
	// are disabled when empty.
	MetricsAddress string `toml:"metrics_address"`
	// DBName is the database directory name, relative to the home
	// directory.
	DBName   string `toml:"db_name"`
	LogLevel string `toml:"log_level"`
	Debug    bool   `toml:"debug"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		ABCIAddress:    "tcp://localhost:26658",
		MetricsAddress: "",
		DBName:         "escrowd.db",
		LogLevel:       "info",
		Debug:          false,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.ABCIAddress == "" {
		return errors.Wrap(errors.ErrEmpty, "abci_address")
	}
	if c.DBName == "" {
		return errors.Wrap(errors.ErrEmpty, "db_name")
	}
	if filepath.IsAbs(c.DBName) || filepath.Base(c.DBName) != c.DBName {
		return errors.Wrapf(errors.ErrInput, "db_name must be a plain name: %q", c.DBName)
	}
	return nil
}

// LoadConfig reads the configuration from the home directory. Missing
// fields keep their default values and a missing file is not an error.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := filepath.Join(home, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", path, err)
	}
	return conf, conf.Validate()
}

// WriteConfig writes the configuration into the home directory.
func WriteConfig(home string, conf Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	path := filepath.Join(home, ConfigFile)
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}
