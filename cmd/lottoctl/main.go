package main

import (
	"os"

	"github.com/fenilmodi00/lotto-backend/cmd/lottoctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
