package missions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync your mission board",
	Long:  "Reconcile the mission board against the current date, rolling over any lapsed windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: misimuslim auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/missions/sync",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		req, _ := http.NewRequest("POST", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("sync failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		fmt.Println("✓ Missions synced")
		if data["daily_reset"] == true {
			fmt.Println("  Daily missions refreshed")
		}
		if data["weekly_reset"] == true {
			fmt.Println("  Weekly missions refreshed")
		}
		if data["monthly_reset"] == true {
			fmt.Println("  Monthly missions refreshed")
		}

		if missions, ok := data["missions"].([]interface{}); ok {
			fmt.Printf("\nYour Missions (%d active):\n\n", len(missions))
			printMissions(missions)
		}
		return nil
	},
}

func init() {
	MissionsCmd.AddCommand(syncCmd)
}
