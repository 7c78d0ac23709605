package main

import "github.com/EthanAnro/rust-book/trpl/tools/trpl-cli/cmd"

func main() {
	cmd.Execute()
}
