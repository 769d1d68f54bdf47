package main

import "github.com/mcoot/connectfour/internal/cli"

func main() {
	cli.Execute()
}
