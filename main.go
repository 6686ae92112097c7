package main

import (
	cmd "github.com/rohmanhakim/film-roulette/internal/cli"
)

func main() {
	cmd.Execute()
}
