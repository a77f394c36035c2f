package main

import "github.com/bryanchriswhite/shareframe/cmd/shareframe/commands"

func main() {
	commands.Execute()
}
