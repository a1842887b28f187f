package main

import "github.com/openswoop/hooscheds/cmd"

func main() {
	cmd.Execute()
}
