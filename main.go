package main

import "github.com/sw33tLie/a11yscope/cmd"

func main() {
	cmd.Execute()
}
