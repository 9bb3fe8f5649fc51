package main

import (
	"fmt"
	"os"

	"InstanceMon/pkg/cmd"
)

func main() {
	if err := cmd.Report(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
