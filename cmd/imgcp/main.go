package main

import "github.com/Fepozopo/imgcp/pkg/cli"

func main() {
	cli.RunCLI()
}
