package main

import (
	"os"

	"github.com/qolzam/bookcatalog/internal/pkg/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
