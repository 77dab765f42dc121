package main

import (
	"github.com/brk3/habittracker/cmd"
)

func main() {
	cmd.Execute()
}
