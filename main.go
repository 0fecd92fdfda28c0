package main

import "github.com/neosplus/neosplus-launcher/cmd"

func main() {
	cmd.Execute()
}
