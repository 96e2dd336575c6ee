package main

import "clipforge/cli"

func main() {
	cli.Execute()
}
