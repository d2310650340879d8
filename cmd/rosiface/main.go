package main

import "rosiface/internal/cli"

func main() {
	cli.Execute()
}
