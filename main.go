package main

import (
	"github.com/joho/godotenv"
	"github.com/user/pluma/cmd"
)

func main() {
	// Load .env if present; gateway token usually lives there.
	_ = godotenv.Load()

	cmd.Execute()
}
