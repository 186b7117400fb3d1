package main

import "github.com/Sunrmmy/GridTactics/cmd"

func main() {
	cmd.Execute()
}
