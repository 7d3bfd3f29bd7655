package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hashforge/blockchain/foundation/blockchain/genesis"
)

// genesisCmd represents the genesis command
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Print the chain settings fixed at construction",
	Run:   genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func genesisRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/genesis/list", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var gen genesis.Genesis
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		log.Fatal(err)
	}

	printJSON(gen)
}
