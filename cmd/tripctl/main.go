// Command tripctl is the operator CLI of the trip planner: it runs database
// migrations and exports trips straight from the store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
