package main

import "github.com/cirruslabs-it/asset-inventory/cmd"

func main() {
	cmd.Execute()
}
