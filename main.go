package main

import "github.com/classpulse/rollcall/cmd"

func main() {
	cmd.Execute()
}
