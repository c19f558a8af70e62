package main

import "github.com/promptkeeper/promptkeeper/internal/cli"

func main() {
	cli.Execute()
}
