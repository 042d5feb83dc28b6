package main

import "cgt-buildtools/internal/cli"

func main() {
	cli.Execute()
}
