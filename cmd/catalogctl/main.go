// Command catalogctl runs catalog queries against a database export on disk
// and opens the resulting deep links.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
