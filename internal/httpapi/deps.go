package httpapi

import (
	"context"
	"sync/atomic"

	"jobgenie-engine/internal/config"
	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/events"
	"jobgenie-engine/internal/session"
	"jobgenie-engine/internal/store"
	"jobgenie-engine/internal/wishlist"

	"github.com/rs/zerolog"
)

// CompanyLookup is the company profile part of the backend client.
type CompanyLookup interface {
	CompanyOverview(ctx context.Context, name string) (domain.Overview, error)
	CompanyJobs(ctx context.Context, name string) ([]domain.JobDetail, error)
	JobDetails(ctx context.Context, name, jobID string) (domain.JobDetail, error)
	ForgetOverview(ctx context.Context, name string) error
}

// LogoStore serves cached logo bytes.
type LogoStore interface {
	Get(ctx context.Context, key string) (store.Logo, error)
}

type Deps struct {
	Hub *events.Hub

	Flow      *wishlist.Flow
	Companies CompanyLookup
	Session   *session.Session
	Logos     LogoStore

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Logger zerolog.Logger
}
