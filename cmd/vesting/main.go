/*
main.go - Application entry point

PURPOSE:
  Starts the vesting CLI. The command tree, configuration loading and the
  HTTP server live in the cli package.

EXAMPLES:
  # Run the API with an in-memory catalogue
  vesting serve --db :memory:

  # Project a preset in the terminal
  vesting calculate builder --growth 10

SEE ALSO:
  - cli/root.go: Command tree
  - cli/serve.go: Server startup and graceful shutdown
*/
package main

import "github.com/warp/vesting-engine/cli"

func main() {
	cli.Execute()
}
