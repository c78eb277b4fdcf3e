// chaosctl manages chaos experiment configurations in Parameter Store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultStore).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
