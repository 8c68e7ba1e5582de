package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to MisiMuslim",
	Long:  "Authenticate with your username and password to access MisiMuslim services",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}

		fmt.Print("Password: ")
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		body := map[string]string{
			"username": username,
			"password": string(password),
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/auth/login",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		resp, err := http.Post(serverURL, "application/json", bytes.NewReader(jsonBody))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("login failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		token := data["token"].(string)
		user := data["user"].(map[string]interface{})

		// Save token to config
		home, _ := os.UserHomeDir()
		configDir := filepath.Join(home, ".misimuslim")
		os.MkdirAll(configDir, 0755)

		viper.Set("user.username", username)
		viper.Set("user.id", user["id"])
		viper.Set("user.token", token)
		viper.WriteConfigAs(filepath.Join(configDir, "config.yaml"))

		fmt.Println("✓ Login successful!")
		fmt.Printf("  Assalamualaikum, %v!\n", user["display_name"])
		printProgression(user)
		printBoardSummary(token)

		return nil
	},
}

// printProgression shows the account's progression snapshot
func printProgression(user map[string]interface{}) {
	level, _ := user["level"].(float64)
	xp, _ := user["xp"].(float64)
	next, _ := user["xp_to_next_level"].(float64)
	coins, _ := user["coins"].(float64)
	fmt.Printf("  Level %.0f | %v\n", level, user["title"])
	fmt.Printf("  XP: %.0f / %.0f | Coins: %.0f\n", xp, next, coins)
}

// printBoardSummary syncs the mission board and shows what is waiting.
// Best-effort: a failure here does not fail the login.
func printBoardSummary(token string) {
	serverURL := fmt.Sprintf("http://%s:%d/api/v1/missions/sync",
		viper.GetString("server.host"),
		viper.GetInt("server.http_port"))

	req, err := http.NewRequest(http.MethodPost, serverURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	if json.Unmarshal(respBody, &result) != nil || result["success"] != true {
		return
	}

	data, _ := result["data"].(map[string]interface{})
	missions, _ := data["missions"].([]interface{})
	perCategory := map[string]int{}
	for _, raw := range missions {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		category, _ := m["category"].(string)
		perCategory[category]++
	}

	fmt.Printf("\n  Mission board: %d missions", len(missions))
	if len(perCategory) > 0 {
		fmt.Printf(" (Harian %d, Mingguan %d, Bulanan %d)",
			perCategory["Harian"], perCategory["Mingguan"], perCategory["Bulanan"])
	}
	fmt.Println()
	fmt.Println("  Run 'misimuslim missions list' to see them")
}

func init() {
	loginCmd.Flags().String("username", "", "Username")
	AuthCmd.AddCommand(loginCmd)
}
