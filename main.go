package main

import "github.com/readmegen/readmegen/cmd"

func main() {
	cmd.Execute()
}
