package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	authCmd "misimuslim/internal/cli/auth"
	configCmd "misimuslim/internal/cli/config"
	"misimuslim/internal/cli/leaderboard"
	"misimuslim/internal/cli/missions"
)

var rootCmd = &cobra.Command{
	Use:   "misimuslim",
	Short: "MisiMuslim command line client",
	Long:  "Operator and power-user client for the MisiMuslim daily missions service",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("host", "", "Server host (overrides config)")
	rootCmd.PersistentFlags().Int("port", 0, "Server HTTP port (overrides config)")

	rootCmd.AddCommand(authCmd.AuthCmd)
	rootCmd.AddCommand(missions.MissionsCmd)
	rootCmd.AddCommand(leaderboard.LeaderboardCmd)
	rootCmd.AddCommand(configCmd.ConfigCmd)
}

func initConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".misimuslim"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		// Missing config is fine; login creates it
		_ = viper.ReadInConfig()
	}

	if host, _ := rootCmd.PersistentFlags().GetString("host"); host != "" {
		viper.Set("server.host", host)
	}
	if port, _ := rootCmd.PersistentFlags().GetInt("port"); port != 0 {
		viper.Set("server.http_port", port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
