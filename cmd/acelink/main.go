package main

import "github.com/abdul-hamid-achik/acelink/cmd/acelink/commands"

func main() {
	commands.Execute()
}
