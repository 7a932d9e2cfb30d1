package main

import (
	"context"
	"os"
)

func main() {
	root, closeApp := newRootCmd()
	err := root.ExecuteContext(context.Background())
	closeApp()
	if err != nil {
		os.Exit(1)
	}
}
