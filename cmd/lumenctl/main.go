// The lumenctl command provides a command-line interface for inspecting
// and controlling a running Lumen Signage player.
package main

import "github.com/lumen-signage/lumen-player/internal/lumenctl/cmd"

func main() {
	cmd.Execute()
}
