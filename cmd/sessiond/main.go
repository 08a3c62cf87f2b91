package main

import "github.com/dmitrymomot/sessionguard/cmd/sessiond/cmd"

func main() {
	cmd.Execute()
}
