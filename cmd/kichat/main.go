// Command kichat is a terminal chat client for the JGU Mainz KI-Chat API
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
