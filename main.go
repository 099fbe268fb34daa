package main

import "github.com/realhidden/floppyexplorer/cmd/floppyexplorer"

func main() {
	cmd.Execute()
}
