package main

import "github.com/jsphweid/tonalpalette/cmd"

func main() {
	cmd.Execute()
}
