package main

import "github.com/klytics/bidkit/cmd"

func main() {
	cmd.Execute()
}
