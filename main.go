package main

import "github.com/KillMonga130/Toyota-hackathon/cmd"

func main() {
	cmd.Execute()
}
