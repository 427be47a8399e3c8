package main

import (
	"karst-backend/cmd/karst-cli/cmd"
)

func main() {
	cmd.Execute()
}
