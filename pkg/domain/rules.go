package domain

import "context"

// RuleView provides read-only access to domain entities for rule evaluation.
type RuleView interface {
	ListOrganizations() []Organization
	ListSongs() []Song
	ListTags() []Tag
	ListSets() []Set
	ListSections() []SetSection
	ListPlacements() []SetSectionSong
	ListResources() []Resource
	FindOrganization(id string) (Organization, bool)
	FindSong(id string) (Song, bool)
	FindSet(id string) (Set, bool)
	FindSection(id string) (SetSection, bool)
	FindSectionType(id string) (SectionType, bool)
}

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// NewDefaultRulesEngine constructs an engine preloaded with the invariant
// rules every store must enforce: contiguous ordering and tenant isolation.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(ContiguousPositionsRule{})
	engine.Register(TenantIsolationRule{})
	return engine
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
