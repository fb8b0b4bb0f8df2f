package main

import "github.com/theirongolddev/balancebuddy/cmd"

func main() {
	cmd.Execute()
}
