package core

import (
	"context"
	"strings"
	"time"

	blobcore "setcore/internal/blob/core"
	"setcore/internal/infra/persistence/memory"
	"setcore/pkg/domain"
)

// Service exposes the transactional operation surface over a persistent
// store. All tenant-scoped operations require a Scope obtained from
// Authorize; the scope is re-checked against stored memberships on every
// call so revocations take effect immediately.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   func() time.Time
	blobs   blobcore.Store
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger installs a structured logger for service events.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics recorder for operation outcomes.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer installs a tracer that wraps every operation in a span.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit sink receiving one entry per operation.
func WithAuditRecorder(rec AuditRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithBlobStore installs the blob backend used for resource content.
func WithBlobStore(store blobcore.Store) Option {
	return func(s *Service) {
		s.blobs = store
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine. Passing nil installs the default invariant rules.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying persistent store.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// membershipFinder is the slice of Transaction and TransactionView the scope
// guard needs.
type membershipFinder interface {
	FindMembership(userID, organizationID string) (Membership, bool)
}

// guardScope re-verifies a scope's membership against stored state. The empty
// scope marks administrative operations and passes through.
func guardScope(v membershipFinder, scope Scope) error {
	if scope.UserID == "" && scope.OrganizationID == "" {
		return nil
	}
	if _, ok := v.FindMembership(scope.UserID, scope.OrganizationID); !ok {
		return domain.UnauthorizedError{UserID: scope.UserID, OrganizationID: scope.OrganizationID}
	}
	return nil
}

// run wraps a transactional operation with tracing, metrics, audit, and
// logging. The scope's membership is re-checked inside the transaction so a
// scope issued before a revocation is rejected. entityID may point at a value
// assigned inside fn.
func (s *Service) run(ctx context.Context, scope Scope, op string, entity domain.EntityType, entityID *string, fn func(domain.Transaction) error) (Result, error) {
	start := s.clock()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if err := guardScope(tx, scope); err != nil {
			return err
		}
		return fn(tx)
	})
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, s.clock().Sub(start))

	entry := AuditEntry{
		Operation:      op,
		Status:         AuditStatusSuccess,
		Entity:         entity,
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationID,
		OccurredAt:     s.clock().UTC(),
	}
	if entityID != nil {
		entry.EntityID = *entityID
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error(op, "error", err)
	} else {
		s.logger.Debug(op, "entity_id", entry.EntityID, "organization_id", scope.OrganizationID)
	}
	s.audit.Record(ctx, entry)
	return res, err
}

// read wraps a read-only operation with tracing and metrics, applying the
// same membership re-check as run.
func (s *Service) read(ctx context.Context, scope Scope, op string, fn func(domain.TransactionView) error) error {
	start := s.clock()
	ctx, span := s.tracer.Start(ctx, op)
	err := s.store.View(ctx, func(v domain.TransactionView) error {
		if err := guardScope(v, scope); err != nil {
			return err
		}
		return fn(v)
	})
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, s.clock().Sub(start))
	if err != nil {
		s.logger.Error(op, "error", err)
	}
	return err
}

// Authorize checks that userID holds a membership in organizationID and
// returns the scope every tenant operation requires. A missing organization
// reports NotFound; a missing membership reports Unauthorized. Results are
// never cached so a revoked membership fails on the next call.
func (s *Service) Authorize(ctx context.Context, userID, organizationID string) (Scope, error) {
	err := s.read(ctx, Scope{}, "authorize", func(v domain.TransactionView) error {
		if _, ok := v.FindOrganization(organizationID); !ok {
			return domain.NotFoundError{Entity: domain.EntityOrganization, ID: organizationID}
		}
		if _, ok := v.FindMembership(userID, organizationID); !ok {
			return domain.UnauthorizedError{UserID: userID, OrganizationID: organizationID}
		}
		return nil
	})
	if err != nil {
		return Scope{}, err
	}
	return Scope{UserID: userID, OrganizationID: organizationID}, nil
}

// CreateOrganization provisions a new tenant. It is part of the
// administrative surface and takes no scope.
func (s *Service) CreateOrganization(ctx context.Context, name string) (Organization, Result, error) {
	var created Organization
	if strings.TrimSpace(name) == "" {
		return created, Result{}, domain.ValidationError{Field: "name", Reason: "organization name must not be empty"}
	}
	res, err := s.run(ctx, Scope{}, "create_organization", domain.EntityOrganization, &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateOrganization(Organization{Name: name})
		return err
	})
	return created, res, err
}

// AddMembership grants userID access to organizationID. Adding an existing
// membership is a no-op returning the stored record.
func (s *Service) AddMembership(ctx context.Context, userID, organizationID string) (Membership, Result, error) {
	var membership Membership
	if strings.TrimSpace(userID) == "" {
		return membership, Result{}, domain.ValidationError{Field: "user_id", Reason: "user id must not be empty"}
	}
	res, err := s.run(ctx, Scope{}, "add_membership", domain.EntityMembership, &membership.UserID, func(tx domain.Transaction) error {
		if _, ok := tx.FindOrganization(organizationID); !ok {
			return domain.NotFoundError{Entity: domain.EntityOrganization, ID: organizationID}
		}
		if existing, ok := tx.FindMembership(userID, organizationID); ok {
			membership = existing
			return nil
		}
		var err error
		membership, err = tx.CreateMembership(Membership{UserID: userID, OrganizationID: organizationID})
		return err
	})
	return membership, res, err
}

// RemoveMembership revokes a user's access to an organization.
func (s *Service) RemoveMembership(ctx context.Context, userID, organizationID string) (Result, error) {
	return s.run(ctx, Scope{}, "remove_membership", domain.EntityMembership, nil, func(tx domain.Transaction) error {
		return tx.DeleteMembership(userID, organizationID)
	})
}

// CreateSectionType adds a section kind (e.g. "Opening") to the caller's
// organization catalog. Names are unique per organization ignoring case; a
// duplicate reports Conflict.
func (s *Service) CreateSectionType(ctx context.Context, scope Scope, name string) (SectionType, Result, error) {
	var created SectionType
	if err := domain.ValidateSectionTypeName(name); err != nil {
		return created, Result{}, err
	}
	res, err := s.run(ctx, scope, "create_section_type", domain.EntitySectionType, &created.ID, func(tx domain.Transaction) error {
		for _, existing := range tx.Snapshot().ListSectionTypes(scope.OrganizationID) {
			if strings.EqualFold(existing.Name, name) {
				return domain.ConflictError{Reason: "section type " + existing.Name + " already exists"}
			}
		}
		var err error
		created, err = tx.CreateSectionType(SectionType{OrganizationID: scope.OrganizationID, Name: name})
		return err
	})
	return created, res, err
}

// ListSectionTypes returns the organization's section kinds sorted by name.
func (s *Service) ListSectionTypes(ctx context.Context, scope Scope) ([]SectionType, error) {
	var out []SectionType
	err := s.read(ctx, scope, "list_section_types", func(v domain.TransactionView) error {
		out = v.ListSectionTypes(scope.OrganizationID)
		return nil
	})
	return out, err
}
