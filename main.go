package main

import (
	"os"

	"github.com/ritualdetail/slotbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
