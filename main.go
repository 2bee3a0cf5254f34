package main

import "github.com/lepinkainen/bookwyrm/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
