package main

import "github.com/ztrayner/airbnb-lock-manager/cmd"

func main() {
	cmd.Execute()
}
