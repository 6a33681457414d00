package main

import (
	"github.com/DrSkyle/lineblame/cmd/lineblame/commands"
	"github.com/joho/godotenv"
)

func main() {
	// LINEBLAME_* settings may come from a .env file next to the project.
	_ = godotenv.Load()

	commands.Execute()
}
