package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"breachguard/internal/breach"
	"breachguard/internal/logger"
	"breachguard/internal/model"
	"breachguard/internal/repository"
)

var (
	// ErrHistoryUnavailable is returned by List when no history store is configured.
	ErrHistoryUnavailable = errors.New("check history is not configured")
)

// DefaultPersistTimeout bounds each best-effort recorder call.
const DefaultPersistTimeout = 3 * time.Second

// BreachLookup fetches raw breach records for an account from an external source.
type BreachLookup interface {
	BreachedAccount(ctx context.Context, account string) ([]breach.Raw, error)
}

// CheckListResult is the service-level DTO for paginated check history.
type CheckListResult struct {
	Items []model.Check `json:"data"`
	Total int           `json:"total"`
}

// CheckService defines the use cases for email breach checks.
type CheckService interface {
	// Check looks up breaches for email, records the result best-effort and
	// returns it. Only lookup failures are returned as errors.
	Check(ctx context.Context, email string) (*model.Check, error)

	// List returns persisted checks using limit and offset, newest first.
	List(ctx context.Context, limit, offset int) (*CheckListResult, error)
}

// Options configures a CheckService.
type Options struct {
	// Lookup performs real lookups. Nil selects demo mode.
	Lookup BreachLookup
	// History stores checks and serves List. Nil disables history.
	History repository.CheckRepository
	// Recorders are extra best-effort sinks, e.g. the object archive.
	Recorders []repository.CheckRecorder
	// PersistTimeout bounds each recorder call; zero uses DefaultPersistTimeout.
	PersistTimeout time.Duration
}

type checkService struct {
	lookup         BreachLookup
	history        repository.CheckRepository
	recorders      []repository.CheckRecorder
	persistTimeout time.Duration
	now            func() time.Time
}

// NewCheckService constructs a new CheckService.
func NewCheckService(opts Options) CheckService {
	recorders := make([]repository.CheckRecorder, 0, len(opts.Recorders)+1)
	if opts.History != nil {
		recorders = append(recorders, opts.History)
	}
	recorders = append(recorders, opts.Recorders...)

	timeout := opts.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}

	return &checkService{
		lookup:         opts.Lookup,
		history:        opts.History,
		recorders:      recorders,
		persistTimeout: timeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *checkService) Check(ctx context.Context, email string) (*model.Check, error) {
	raw, source, err := s.fetch(ctx, email)
	if err != nil {
		return nil, err
	}

	c := model.NewCheck(email, breach.NormalizeAll(raw), source, s.now())
	s.persist(ctx, c)

	return c, nil
}

// fetch returns raw records from HIBP when a lookup is configured, and from
// the demo provider otherwise.
func (s *checkService) fetch(ctx context.Context, email string) ([]breach.Raw, string, error) {
	if s.lookup == nil {
		return breach.Demo(breach.DomainOf(email)), model.SourceDemo, nil
	}

	raw, err := s.lookup.BreachedAccount(ctx, email)
	if err != nil {
		return nil, model.SourceHIBP, err
	}
	return raw, model.SourceHIBP, nil
}

// persist hands the check to every recorder. Failures never reach the caller.
func (s *checkService) persist(ctx context.Context, c *model.Check) {
	base := context.WithoutCancel(ctx)
	for _, r := range s.recorders {
		rctx, cancel := context.WithTimeout(base, s.persistTimeout)
		if err := r.Create(rctx, c); err != nil {
			logger.Warn(ctx, "could not persist check", zap.String("source", c.Source), zap.Error(err))
		}
		cancel()
	}
}

// List returns paginated checks without exposing repository types.
func (s *checkService) List(ctx context.Context, limit, offset int) (*CheckListResult, error) {
	if s.history == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.history.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &CheckListResult{Items: res.Items, Total: res.Total}, nil
}
