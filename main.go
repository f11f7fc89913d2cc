package main

import "paycat/cmd"

func main() {
	cmd.Execute()
}
