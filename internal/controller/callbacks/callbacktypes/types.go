package callbacktypes

import (
	"time"

	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/controller/state"
	"github.com/ishita-lives/schedulr/internal/repository"
	"github.com/ishita-lives/schedulr/internal/service"
)

// Handler holds the dependencies shared by command and callback handlers.
type Handler struct {
	Catalog      *service.CatalogService
	Enrollments  *service.EnrollmentService
	Changes      *service.ChangeService
	Grid         *service.GridService
	Stats        *service.StatsService
	Accounts     repository.AccountRepository
	StateManager *state.Manager
	Location     *time.Location
	Logger       *zap.Logger

	// Now is the wall clock; tests may replace it.
	Now func() time.Time
}
