package main

import "github.com/renthaven/renthaven/internal/cli"

func main() {
	cli.Execute()
}
