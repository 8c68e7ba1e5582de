package missions

import "github.com/spf13/cobra"

var MissionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Mission board commands",
	Long:  "Sync, list, and complete your daily missions",
}

func init() {
	// Commands added in sync.go, list.go, and complete.go
}
