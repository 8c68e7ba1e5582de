package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Register, login, and manage the saved MisiMuslim session",
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := viper.GetString("user.username")
		if viper.GetString("user.token") == "" {
			fmt.Println("Not logged in")
			return nil
		}

		viper.Set("user.username", "")
		viper.Set("user.id", "")
		viper.Set("user.token", "")

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		if err := viper.WriteConfigAs(filepath.Join(home, ".misimuslim", "config.yaml")); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}

		fmt.Printf("✓ Logged out %s\n", username)
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(logoutCmd)
}
