package main

import "github.com/tipchune/tipchune/app/wallet/cmd"

func main() {
	cmd.Execute()
}
