package main

import "github.com/mcoot/crosswordrobot/internal/cli"

func main() {
	cli.Execute()
}
