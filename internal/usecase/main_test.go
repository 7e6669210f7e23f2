package usecase

import (
	"os"
	"testing"

	"github.com/user/collection-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	// Use cases record metrics; register the collectors once for the package.
	metrics.Init()
	os.Exit(m.Run())
}
