package main

import "github.com/apimguard/apimguard/internal/cli"

func main() {
	cli.Execute()
}
