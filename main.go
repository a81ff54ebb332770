package main

import (
	"os"

	"github.com/klokku/availshare/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

const defaultConfigPath = "./config/application.yaml"

func main() {
	configPath := os.Getenv("AVAILSHARE_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	log.Infof("availshare starting, config %s, log level %s", configPath, log.GetLevel())

	application, err := app.NewApplication(configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
