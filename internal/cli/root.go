// Package cli implements the village-market CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/village-market/internal/config"
	"github.com/rcliao/village-market/internal/store"
)

var (
	cfgFile    string
	formatFlag string

	v   = viper.New()
	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "village-market",
	Short: "Village business directory over USSD",
	Long:  "A keypad marketplace directory. Serves the USSD callback, and manages listings from the terminal. SQLite-backed, single binary.",
}

func init() {
	cobra.OnInitialize(loadConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	RootCmd.PersistentFlags().StringP("db", "d", "", "Database path (default: $VILLAGE_MARKET_DB or ~/.village-market/market.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or yaml")

	_ = v.BindPFlag(config.KeyDB, RootCmd.PersistentFlags().Lookup("db"))
}

func loadConfig() {
	if err := config.Init(v, cfgFile); err != nil {
		exitErr("config", err)
	}
	c, err := config.Load(v)
	if err != nil {
		exitErr("config", err)
	}
	cfg = c
}

func getDBPath() string {
	if cfg != nil {
		return cfg.DBPath
	}
	return config.DefaultDBPath()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
