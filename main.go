package main

import "github.com/gudangops/wardeck/cmd/wardeck/commands"

func main() {
	commands.Execute()
}
