// main is the entry point for the healthness CLI.
package main

import (
	"os"

	"github.com/hi-wesley/my-healthness-pal-sub000/cmd"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/store"
)

func main() {
	cmd.SetHistoryManager(store.Manager)

	err := cmd.Execute()
	store.CloseHistory()
	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
