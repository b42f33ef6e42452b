package main

import (
	"fmt"
	"os"

	"github.com/shandysiswandi/flaken/internal/cmd/flakectl"
)

func main() {
	if err := flakectl.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flakectl:", err)
		os.Exit(1)
	}
}
