package main

import "bvgview/cmd"

func main() {
	cmd.Execute()
}
