package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

var account string

// blocksCmd represents the blocks command
var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks in the chain",
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVarP(&account, "account", "a", "", "Show only blocks this account took part in.")
}

func blocksRun(cmd *cobra.Command, args []string) {
	endpoint := fmt.Sprintf("%s/v1/blocks/list", url)
	if account != "" {
		endpoint = fmt.Sprintf("%s/v1/blocks/list/%s", url, account)
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		fmt.Println("no blocks")
		return
	}

	var blocks []ledger.BlockData
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		log.Fatal(err)
	}

	printJSON(blocks)
}
