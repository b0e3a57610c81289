package main

import (
	"os"
)

// main hands off to the cobra command tree. Wiring lives in serve.go; business
// logic lives in the internal packages.
func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
