package automaxprocs

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/oscwire/go-osc/internal/logger"
)

// Init sets GOMAXPROCS from the container CPU quota.
func Init(log *logger.Logger) {
	_, err := maxprocs.Set(maxprocs.Logger(log.Printf))
	if err != nil {
		log.Error().Err(err).Msg("failed to set automaxprocs")
	}
}
