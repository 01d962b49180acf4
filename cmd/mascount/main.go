// Command mascount counts exact occurrences of a pattern in sequence files.
package main

import (
	"os"

	"github.com/mhr3/mas/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
