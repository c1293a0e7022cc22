package server

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/spf13/cobra"
)

// ValidateCmd loads every given genesis file into a throw away store to
// make sure the chain can start from it.
func ValidateCmd(ini weave.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis file>...",
		Short: "Validate the app_state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis loads each file into its own scratch store and stops
// at the first file the chain could not start from.
func ValidateGenesis(ini weave.Initializer, paths []string) error {
	for _, p := range paths {
		gen, err := app.LoadGenesis(p)
		if err == nil {
			err = checkGenesis(ini, gen)
		}
		if err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func checkGenesis(ini weave.Initializer, gen *app.Genesis) error {
	if !weave.IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	return errors.Wrap(ini.FromGenesis(gen.AppState, store.MemStore()), "app_state")
}
