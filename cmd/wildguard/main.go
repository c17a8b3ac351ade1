// Command wildguard is the terminal client for WildGuard.
package main

import "github.com/wildguard/console/internal/cli"

func main() {
	cli.Execute()
}
