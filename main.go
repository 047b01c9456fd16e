package main

import (
	"log"

	"github.com/cadupuy/airbnb-backend/startup"
	"github.com/cadupuy/airbnb-backend/startup/config"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	server := startup.NewServer(cfg)
	server.Start()
}
