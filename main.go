package main

import "github.com/Seann-Moser/motorhat/cmd"

func main() {
	cmd.Execute()
}
