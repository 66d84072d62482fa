package main

import (
	"log"

	"staybook/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		log.Fatalf("staybookctl: %v", err)
	}
}
