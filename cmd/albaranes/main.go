package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/albaranes-api/internal/config"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "albaranes",
		Short: "Delivery note API",
		Long: `Delivery note (albarán) API for freelancers and small companies.

Users manage clients and projects, issue delivery notes for hours or material,
collect the client's signature and keep the signed PDF in durable storage.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env, yaml or toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func initConfig() {
	if cfgFile != "" {
		config.SetConfigFile(cfgFile)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
