package testlog

import (
	"testing"

	"github.com/max8938/FinalCallATC/internal/logging"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logging.Infof("test=%s", t.Name())
}
