// Package main is the entry point for the regroup CLI.
package main

import "gooze.dev/pkg/regroup/cmd"

func main() {
	cmd.Execute()
}
