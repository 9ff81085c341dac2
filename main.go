package main

import "library/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
