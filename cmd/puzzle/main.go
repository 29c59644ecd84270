package main

import "github.com/jaminalder/hidden-ring-tictactoe/internal/cli"

func main() {
	cli.Execute()
}
