package main

import "github.com/tablechat/tablechat-cli/cmd"

func main() {
	cmd.Execute()
}
