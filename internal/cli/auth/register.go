package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  "Create a new MisiMuslim account with username, display name, and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		displayName, _ := cmd.Flags().GetString("display-name")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}
		if displayName == "" {
			fmt.Print("Display name: ")
			fmt.Scanln(&displayName)
		}

		fmt.Print("Password: ")
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		fmt.Print("Confirm password: ")
		confirm, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		if string(password) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		body := map[string]string{
			"username":     username,
			"display_name": displayName,
			"password":     string(password),
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/auth/register",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		resp, err := http.Post(serverURL, "application/json", bytes.NewReader(jsonBody))
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("registration failed: %v", result["error"])
		}

		fmt.Println("✓ Account created successfully!")
		data, _ := result["data"].(map[string]interface{})
		if user, ok := data["user"].(map[string]interface{}); ok {
			// Registration seeds the starting progression and the first
			// mission board server-side
			printProgression(user)
			fmt.Println("  Your first mission board is ready")
		}
		fmt.Println("\nNext: misimuslim auth login --username " + username)

		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "Username")
	registerCmd.Flags().String("display-name", "", "Display name")
	AuthCmd.AddCommand(registerCmd)
}
