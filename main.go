package main

import "github.com/buildtools/cmd"

func main() {
	cmd.Execute()
}
