package main

import "trovo/cmd/trovo/cmd"

func main() {
	cmd.Execute()
}
