package main

import "github.com/jmehdipour/credit-decision/cmd"

func main() {
	cmd.Execute()
}
