package main

import "football-sync/cmd"

func main() {
	cmd.Execute()
}
