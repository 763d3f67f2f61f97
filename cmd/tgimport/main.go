package main

import "github.com/plancraft/tgimport/cmd/tgimport/commands"

func main() {
	commands.Execute()
}
