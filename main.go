package main

import "github.com/KaramelBytes/scoreplot-cli/cmd"

func main() {
	cmd.Execute()
}
