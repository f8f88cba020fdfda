package main

import "github.com/FitrahHaque/Repetition-Engine/cmd"

func main() {
	cmd.Execute()
}
