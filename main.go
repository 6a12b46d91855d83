package main

import "github.com/fakeyudi/screener/cmd"

func main() {
	cmd.Execute()
}
