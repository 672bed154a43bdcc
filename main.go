package main

import (
	"os"

	"github.com/muhammadolammi/hireflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
