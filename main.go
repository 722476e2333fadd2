package main

import "github.com/benrogboe/zetafold/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
