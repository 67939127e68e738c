package main

import "ulang/cmd"

func main() {
	cmd.Execute()
}
