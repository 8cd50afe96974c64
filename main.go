package main

import "midend/cmd"

func main() {
	cmd.Execute()
}
