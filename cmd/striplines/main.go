// IMPORTANT: check keeps its cache in sqlite through github.com/mattn/go-sqlite3,
// so the binary must be built with cgo enabled:
// CGO_ENABLED=1 go build -o striplines ./cmd/striplines

package main

import (
	"fmt"
	"os"

	"github.com/aziis98/striplines/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
