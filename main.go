// ABOUTME: Entry point for the MarketMind workbench
// ABOUTME: Hands off to the cobra command tree in cli
package main

import (
	"os"

	"github.com/harperreed/marketmind/cli"
)

const version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
