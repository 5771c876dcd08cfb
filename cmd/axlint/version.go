package main

import "fmt"

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func runVersion() error {
	fmt.Printf("axlint %s\n", version)
	return nil
}
