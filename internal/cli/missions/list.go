package missions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your mission board",
	Long:  "View all active missions grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: misimuslim auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/missions",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		req, _ := http.NewRequest("GET", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to get missions: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed to get missions: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		missions := data["missions"].([]interface{})

		fmt.Printf("\nYour Missions (%d active):\n\n", len(missions))
		printMissions(missions)
		return nil
	},
}

func printMissions(missions []interface{}) {
	for i, item := range missions {
		m := item.(map[string]interface{})
		fmt.Printf("%d. [%s] %s\n", i+1, m["category"], m["title"])
		if desc, ok := m["description"].(string); ok && desc != "" {
			fmt.Printf("   %s\n", desc)
		}
		fmt.Printf("   Reward: %.0f XP, %.0f coins", m["xp"].(float64), m["coins"].(float64))
		if bonus, ok := m["bonus_xp"].(float64); ok && bonus > 0 {
			fmt.Printf(" (+%.0f bonus XP with photo)", bonus)
		}
		fmt.Printf("\n   ID: %s\n\n", m["id"])
	}
}

func init() {
	MissionsCmd.AddCommand(listCmd)
}
