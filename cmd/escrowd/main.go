package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/cmd/escrowd/app"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")

	if err := rootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd(logger log.Logger) *cobra.Command {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")

	// The logger level is only known after the configuration is loaded,
	// so every command logs through this filtered wrapper.
	filtered := &levelLogger{Logger: logger}

	root := &cobra.Command{
		Use:           "escrowd",
		Short:         "Escrow state machine node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString("home")
			if err != nil {
				return err
			}
			conf, err := server.LoadConfig(home)
			if err != nil {
				return err
			}
			l, err := flags.ParseLogLevel(conf.LogLevel, logger, "info")
			if err != nil {
				return err
			}
			filtered.Logger = l
			return nil
		},
	}
	root.PersistentFlags().String("home", defaultHome, "directory to store files under")

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, filtered),
		server.StartCmd(app.GenerateApp, filtered),
		server.ValidateCmd(app.Initializers()),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(weave.Version())
		},
	}
}

// levelLogger forwards to a logger that can be replaced once the log level
// configuration is known.
type levelLogger struct {
	log.Logger
}

func (l *levelLogger) With(keyvals ...interface{}) log.Logger {
	return &levelLogger{Logger: l.Logger.With(keyvals...)}
}
