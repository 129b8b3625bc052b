package main

import (
	"log"

	"melbgo/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}
