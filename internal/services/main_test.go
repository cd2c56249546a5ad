package services

import (
	"os"
	"testing"

	"github.com/ace-TI85/dev-connector/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
