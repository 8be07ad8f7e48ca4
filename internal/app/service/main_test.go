package service

import (
	"os"
	"testing"

	"poi_network/internal/common/security"
	"poi_network/internal/platform/config"
	"poi_network/internal/platform/logger"
)

func TestMain(m *testing.M) {
	config.Load()
	logger.Init("test")
	security.InitJWT()
	os.Exit(m.Run())
}
