package main

import "tasker.com/tasker/cmd"

func main() {
	cmd.Execute()
}
