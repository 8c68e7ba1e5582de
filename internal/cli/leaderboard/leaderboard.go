package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var LeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the XP leaderboard",
	Long:  "Display the top users ranked by cumulative XP",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/leaderboard",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed to get leaderboard: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		entries := data["leaderboard"].([]interface{})

		fmt.Printf("\nLeaderboard (top %d):\n\n", len(entries))
		for _, item := range entries {
			e := item.(map[string]interface{})
			fmt.Printf("%3.0f. %-20s  Lv %-4.0f %8.0f XP  %s\n",
				e["rank"].(float64),
				e["display_name"],
				e["level"].(float64),
				e["xp"].(float64),
				e["title"])
		}
		fmt.Println()
		return nil
	},
}
