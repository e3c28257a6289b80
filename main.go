package main

import "quality-audit/cmd"

func main() {
	cmd.Execute()
}
