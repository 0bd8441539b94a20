// Command notenvektor indexes PDF songbooks as embeddings and searches them
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
