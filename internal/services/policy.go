package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/pkg/logger"
)

// PhantomPolicyConfig is the wire/config form of the exclusion policy: the
// set of categories whose reactions are phantom, plus the two visibility
// flags that decide how a phantom reaction is treated.
type PhantomPolicyConfig struct {
	ExcludedCategoryIDs []uuid.UUID `json:"excluded_category_ids" yaml:"excluded_category_ids"`
	ShowInHistory       bool        `json:"show_in_history" yaml:"show_in_history"`
	CountInAggregate    bool        `json:"count_in_aggregate" yaml:"count_in_aggregate"`
}

// PhantomPolicy is one consistent snapshot of the policy. A snapshot is
// taken once per event (or once per reconcile run) and threaded through
// every step, so a concurrent policy flip can never tear a decision.
type PhantomPolicy struct {
	showInHistory    bool
	countInAggregate bool
	ordered          []uuid.UUID
	excluded         map[uuid.UUID]struct{}
}

func NewPhantomPolicy(cfg PhantomPolicyConfig) PhantomPolicy {
	p := PhantomPolicy{
		showInHistory:    cfg.ShowInHistory,
		countInAggregate: cfg.CountInAggregate,
		excluded:         make(map[uuid.UUID]struct{}, len(cfg.ExcludedCategoryIDs)),
	}
	for _, id := range cfg.ExcludedCategoryIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := p.excluded[id]; ok {
			continue
		}
		p.excluded[id] = struct{}{}
		p.ordered = append(p.ordered, id)
	}
	return p
}

// EmptyPhantomPolicy excludes nothing; it is also the fail-open fallback
// when the policy store is unreachable.
func EmptyPhantomPolicy() PhantomPolicy {
	return NewPhantomPolicy(PhantomPolicyConfig{ShowInHistory: true, CountInAggregate: true})
}

func (p PhantomPolicy) Empty() bool { return len(p.excluded) == 0 }

func (p PhantomPolicy) IsExcluded(categoryID uuid.UUID) bool {
	if categoryID == uuid.Nil {
		return false
	}
	_, ok := p.excluded[categoryID]
	return ok
}

func (p PhantomPolicy) ExcludedCategoryIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(p.ordered))
	copy(out, p.ordered)
	return out
}

func (p PhantomPolicy) ShowInHistory() bool    { return p.showInHistory }
func (p PhantomPolicy) CountInAggregate() bool { return p.countInAggregate }

func (p PhantomPolicy) Config() PhantomPolicyConfig {
	return PhantomPolicyConfig{
		ExcludedCategoryIDs: p.ExcludedCategoryIDs(),
		ShowInHistory:       p.showInHistory,
		CountInAggregate:    p.countInAggregate,
	}
}

// PolicySource yields the current policy snapshot. Implementations never
// return an error: an unreachable backing store degrades to "nothing
// excluded", because hiding real activity is worse than briefly counting
// phantom activity (reconciliation corrects the latter).
type PolicySource interface {
	Current(ctx context.Context) PhantomPolicy
}

// PolicyStore is the raw configuration value store backing the redis
// source; administration of the value itself lives outside this service.
type PolicyStore interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, raw []byte) error
}

type staticPolicySource struct {
	policy PhantomPolicy
}

func NewStaticPolicySource(policy PhantomPolicy) PolicySource {
	return &staticPolicySource{policy: policy}
}

func (s *staticPolicySource) Current(context.Context) PhantomPolicy { return s.policy }

type redisPolicySource struct {
	log      *logger.Logger
	store    PolicyStore
	fallback PhantomPolicy
}

// NewRedisPolicySource reads the policy value on every call, so an
// administrative change is visible to the very next event. The fallback
// applies when the key is absent; store errors degrade to excluding
// nothing.
func NewRedisPolicySource(baseLog *logger.Logger, store PolicyStore, fallback PhantomPolicy) PolicySource {
	return &redisPolicySource{
		log:      baseLog.With("service", "PolicySource"),
		store:    store,
		fallback: fallback,
	}
}

func (s *redisPolicySource) Current(ctx context.Context) PhantomPolicy {
	raw, found, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("policy store unavailable; excluding nothing", "error", err)
		return EmptyPhantomPolicy()
	}
	if !found {
		return s.fallback
	}
	var cfg PhantomPolicyConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.log.Warn("policy value is not valid JSON; excluding nothing", "error", err)
		return EmptyPhantomPolicy()
	}
	return NewPhantomPolicy(cfg)
}

// PolicyAdminService reads and replaces the stored policy value.
type PolicyAdminService interface {
	Current(ctx context.Context) PhantomPolicy
	Update(ctx context.Context, cfg PhantomPolicyConfig) error
}

type policyAdminService struct {
	log    *logger.Logger
	source PolicySource
	store  PolicyStore
}

func NewPolicyAdminService(baseLog *logger.Logger, source PolicySource, store PolicyStore) PolicyAdminService {
	return &policyAdminService{
		log:    baseLog.With("service", "PolicyAdminService"),
		source: source,
		store:  store,
	}
}

func (s *policyAdminService) Current(ctx context.Context) PhantomPolicy {
	return s.source.Current(ctx)
}

func (s *policyAdminService) Update(ctx context.Context, cfg PhantomPolicyConfig) error {
	if s.store == nil {
		return fmt.Errorf("no writable policy store configured")
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}
	if err := s.store.Save(ctx, raw); err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	s.log.Info("phantom policy updated",
		"excluded_categories", len(cfg.ExcludedCategoryIDs),
		"show_in_history", cfg.ShowInHistory,
		"count_in_aggregate", cfg.CountInAggregate)
	return nil
}
