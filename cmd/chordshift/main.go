// Command chordshift transposes chord symbols and chord charts, estimates
// the key of a progression and renders songs stored in a songbook database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
