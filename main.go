package main

import (
	"os"

	"github.com/ComplyTrail/audit_service/config"
	"github.com/ComplyTrail/audit_service/internal/api"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("ENV") != "prod" {
		logger.SetLevel(logrus.DebugLevel)
	}

	api.StartServer(cfg, logger)
}
