package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/o0olele/navmesh-go/config"
	"github.com/o0olele/navmesh-go/logger"
)

var VERSION = "dev"

func main() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RootCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:           "navmesh",
		Short:         "triangle navigation mesh builder and path query tool",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(configFile); err != nil {
				return err
			}
			logger.InitLogger(config.GetConfig().LoggerConfig())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.CloseLogger()
		},
	}
	c.PersistentFlags().StringVar(&configFile, "config", "", "hjson config file")
	c.AddCommand(
		BuildCmd(),
		QueryCmd(),
		InfoCmd(),
		ServeCmd(),
		SchemaCmd(),
	)
	return c
}
