package main

import "github.com/srynk/pulse/internal/commands"

func main() {
	commands.Execute()
}
