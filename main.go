package main

import "github.com/notargets/dgamr/cmd"

func main() {
	cmd.Execute()
}
