package main

import "github.com/Ahmadalmuhidat/bittrack/cmd"

func main() {
	cmd.Execute()
}
