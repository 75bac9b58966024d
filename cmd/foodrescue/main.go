package main

import "github.com/foodrescuehub/foodrescue/internal/cli"

func main() {
	cli.Execute()
}
