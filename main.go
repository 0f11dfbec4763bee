package main

import "github.com/coral-agents/coral-interface-agent/cmd"

func main() {
	cmd.Execute()
}
