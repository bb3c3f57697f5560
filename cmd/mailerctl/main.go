package main

import "github.com/ignite/mailerctl/internal/cli"

func main() {
	cli.Execute()
}
