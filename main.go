package main

import "github.com/rocketwatch/resolver/cmd"

func main() {
	cmd.Execute()
}
