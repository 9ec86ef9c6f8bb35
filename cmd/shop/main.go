package main

import "github.com/Skotchmaster/simple_shop/cmd/shop/commands"

func main() {
	commands.Execute()
}
