// This program provides a command line client for the ledger node.
package main

import (
	"github.com/hashforge/blockchain/app/tooling/cli/cmd"
)

func main() {
	cmd.Execute()
}
