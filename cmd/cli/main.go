package main

import "github.com/airhealthproject/airctl/pkg/cli"

func main() {
	cli.Execute()
}
