package main

import "github.com/cbxthumb/cbxthumb/cmd"

func main() {
	cmd.Execute()
}
