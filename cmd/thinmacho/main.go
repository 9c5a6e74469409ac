package main

import "github.com/appsworld/thinmacho/cmd/thinmacho/cmd"

func main() {
	cmd.Execute()
}
