package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

type pendingPool struct {
	PendingTransactions []ledger.Tx `json:"pendingTransactions"`
}

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the uncommitted transactions in the pending pool",
	Run:   pendingRun,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func pendingRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/tx/uncommitted/list", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var pool pendingPool
	if err := json.NewDecoder(resp.Body).Decode(&pool); err != nil {
		log.Fatal(err)
	}

	printJSON(pool)
}
