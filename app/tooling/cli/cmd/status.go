package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type chainStatus struct {
	LatestBlockHash string `json:"latestBlockHash"`
	Height          int    `json:"height"`
	PendingCount    int    `json:"pendingCount"`
	Difficulty      int    `json:"difficulty"`
	MiningReward    uint64 `json:"miningReward"`
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a summary of the chain and the pending pool",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/status", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var status chainStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.Fatal(err)
	}

	printJSON(status)
}
