// Command hbnb manages hbnb model objects from an interactive console, runs
// one-shot console commands and serves the web front.
package main

import "github.com/NateMachoka/AirBnB-clone-v2/internal/cli"

func main() {
	cli.Execute()
}
