package missions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var completeCmd = &cobra.Command{
	Use:   "complete <mission-id>",
	Short: "Complete a mission",
	Long:  "Mark an action mission as done and collect its rewards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: misimuslim auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/missions/%s/complete",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			args[0])

		req, _ := http.NewRequest("POST", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("completion failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("completion failed: %v", result["error"])
		}

		data := result["data"].(map[string]interface{})
		fmt.Println("✓ Mission completed!")
		fmt.Printf("  +%.0f XP, +%.0f coins\n", data["xp_gained"].(float64), data["coins_gained"].(float64))
		fmt.Printf("  Total: %.0f XP, %.0f coins\n", data["xp"].(float64), data["coins"].(float64))
		if data["leveled_up"] == true {
			fmt.Printf("  ★ Level up! You are now level %.0f (%v)\n", data["level"].(float64), data["title"])
		}
		return nil
	},
}

func init() {
	MissionsCmd.AddCommand(completeCmd)
}
