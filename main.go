package main

import "github.com/bbmart/marketplace/app/cmd"

func main() {
	cmd.RunCli()
}
