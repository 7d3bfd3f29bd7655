package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var beneficiary string

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Signal the node to mine the pending pool into a block",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&beneficiary, "beneficiary", "b", "", "Account to receive the mining reward.")
}

func mineRun(cmd *cobra.Command, args []string) {
	endpoint := fmt.Sprintf("%s/v1/mining/signal", url)
	if beneficiary != "" {
		endpoint = fmt.Sprintf("%s/v1/mining/signal/%s", url, beneficiary)
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Status)
}
