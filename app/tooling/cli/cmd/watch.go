package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream mining events from the node",
	Run:   watchRun,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchRun(cmd *cobra.Command, args []string) {
	endpoint := strings.Replace(url, "http", "ws", 1) + "/v1/events"

	c, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			log.Fatal(err)
		}

		if len(msg) > 0 {
			fmt.Println(string(msg))
		}
	}
}
