package main

import "rhizome/indexer/cmd"

func main() {
	cmd.Execute()
}
