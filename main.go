package main

import (
	"log"

	"AnonAskBot/internal/adapters/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	a.Start()
}
