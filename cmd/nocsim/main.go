// Command nocsim simulates a real-time application on a many-core crossbar
// platform.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/nocsim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
