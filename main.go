// Package main GitVault record synchronization daemon
//
// GitVault keeps a working directory of YAML-encoded records synchronized
// against a remote Git repository and exposes record CRUD plus
// synchronization control over a local HTTP API.
package main

import "github.com/gitvault/gitvault/internal"

func main() {
	internal.Run()
}
