// Command cvforge renders structured CV documents into typeset PDFs, page
// images, and lightweight-markup renditions.
package main

import (
	"os"

	// Align GOMAXPROCS with container CPU quotas.
	_ "go.uber.org/automaxprocs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
