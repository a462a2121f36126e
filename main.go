package main

import "corescan-portal/cmd"

func main() {
	cmd.Execute()
}
