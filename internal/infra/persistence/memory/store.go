// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"setcore/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Organization aliases domain.Organization for in-memory persistence operations.
	Organization = domain.Organization
	// Membership aliases domain.Membership.
	Membership = domain.Membership
	// SectionType aliases domain.SectionType.
	SectionType = domain.SectionType
	// Song aliases domain.Song.
	Song = domain.Song
	// Tag aliases domain.Tag.
	Tag = domain.Tag
	// SongTag aliases domain.SongTag.
	SongTag = domain.SongTag
	// Resource aliases domain.Resource.
	Resource = domain.Resource
	// Set aliases domain.Set.
	Set = domain.Set
	// SetSection aliases domain.SetSection.
	SetSection = domain.SetSection
	// SetSectionSong aliases domain.SetSectionSong.
	SetSectionSong = domain.SetSectionSong
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
)

func membershipKey(userID, organizationID string) string {
	return userID + "\x00" + organizationID
}

func songTagKey(songID, tagID string) string {
	return songID + "\x00" + tagID
}

type state struct {
	organizations map[string]Organization
	memberships   map[string]Membership
	sectionTypes  map[string]SectionType
	songs         map[string]Song
	tags          map[string]Tag
	songTags      map[string]SongTag
	resources     map[string]Resource
	sets          map[string]Set
	sections      map[string]SetSection
	placements    map[string]SetSectionSong
}

func newState() state {
	return state{
		organizations: make(map[string]Organization),
		memberships:   make(map[string]Membership),
		sectionTypes:  make(map[string]SectionType),
		songs:         make(map[string]Song),
		tags:          make(map[string]Tag),
		songTags:      make(map[string]SongTag),
		resources:     make(map[string]Resource),
		sets:          make(map[string]Set),
		sections:      make(map[string]SetSection),
		placements:    make(map[string]SetSectionSong),
	}
}

func (s state) clone() state {
	cloned := newState()
	for k, v := range s.organizations {
		cloned.organizations[k] = v
	}
	for k, v := range s.memberships {
		cloned.memberships[k] = v
	}
	for k, v := range s.sectionTypes {
		cloned.sectionTypes[k] = v
	}
	for k, v := range s.songs {
		cloned.songs[k] = v
	}
	for k, v := range s.tags {
		cloned.tags[k] = v
	}
	for k, v := range s.songTags {
		cloned.songTags[k] = v
	}
	for k, v := range s.resources {
		cloned.resources[k] = cloneResource(v)
	}
	for k, v := range s.sets {
		cloned.sets[k] = cloneSet(v)
	}
	for k, v := range s.sections {
		cloned.sections[k] = v
	}
	for k, v := range s.placements {
		cloned.placements[k] = clonePlacement(v)
	}
	return cloned
}

func cloneResource(r Resource) Resource {
	cp := r
	if r.ContentKey != nil {
		key := *r.ContentKey
		cp.ContentKey = &key
	}
	return cp
}

func cloneSet(s Set) Set {
	cp := s
	if s.Name != nil {
		name := *s.Name
		cp.Name = &name
	}
	return cp
}

func clonePlacement(p SetSectionSong) SetSectionSong {
	cp := p
	if p.KeyOverride != nil {
		key := *p.KeyOverride
		cp.KeyOverride = &key
	}
	return cp
}

// Store provides an in-memory transactional store for the core domain.
// A single store-wide mutex serializes transactions, so concurrent
// position-affecting writes against the same set are applied one at a time
// with positions recomputed from committed state.
type Store struct {
	mu     sync.RWMutex
	state  state
	engine *RulesEngine
	nowFn  func() time.Time
	idFn   func() string
}

// NewStore constructs an in-memory store backed by the provided rules engine.
// A nil engine defaults to the domain invariant rules.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewDefaultRulesEngine()
	}
	return &Store{
		state:  newState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		idFn:   uuid.NewString,
	}
}

// SetNowFunc overrides the transaction clock. Intended for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	store   *Store
	state   state
	changes []Change
	now     time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy becomes the committed state only when fn and every registered rule
// succeed; any failure discards the copy entirely.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		snapshot := view{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, snapshot, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(view{state: &snapshot})
}

// GetOrganization retrieves an organization from committed state.
func (s *Store) GetOrganization(id string) (Organization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.state.organizations[id]
	return org, ok
}

// ListOrganizations returns all organizations sorted by name.
func (s *Store) ListOrganizations() []Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Organization, 0, len(s.state.organizations))
	for _, org := range s.state.organizations {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (tx *Transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes the transactional state to read-side helpers and rules.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return view{state: &tx.state}
}

// CreateOrganization stores a new organization within the transaction.
func (tx *Transaction) CreateOrganization(o Organization) (Organization, error) {
	if o.ID == "" {
		o.ID = tx.store.idFn()
	}
	if _, exists := tx.state.organizations[o.ID]; exists {
		return Organization{}, fmt.Errorf("organization %q already exists", o.ID)
	}
	o.CreatedAt = tx.now
	o.UpdatedAt = tx.now
	tx.state.organizations[o.ID] = o
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionCreate, After: o})
	return o, nil
}

// UpdateOrganization mutates an organization using the provided mutator.
func (tx *Transaction) UpdateOrganization(id string, mutator func(*Organization) error) (Organization, error) {
	current, ok := tx.state.organizations[id]
	if !ok {
		return Organization{}, domain.NotFoundError{Entity: domain.EntityOrganization, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Organization{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.organizations[id] = current
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteOrganization removes an organization record.
func (tx *Transaction) DeleteOrganization(id string) error {
	current, ok := tx.state.organizations[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityOrganization, ID: id}
	}
	delete(tx.state.organizations, id)
	tx.recordChange(Change{Entity: domain.EntityOrganization, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateMembership stores a user/organization membership.
func (tx *Transaction) CreateMembership(m Membership) (Membership, error) {
	key := membershipKey(m.UserID, m.OrganizationID)
	if _, exists := tx.state.memberships[key]; exists {
		return Membership{}, fmt.Errorf("membership %s/%s already exists", m.UserID, m.OrganizationID)
	}
	m.CreatedAt = tx.now
	tx.state.memberships[key] = m
	tx.recordChange(Change{Entity: domain.EntityMembership, Action: domain.ActionCreate, After: m})
	return m, nil
}

// DeleteMembership removes a membership row.
func (tx *Transaction) DeleteMembership(userID, organizationID string) error {
	key := membershipKey(userID, organizationID)
	current, ok := tx.state.memberships[key]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityMembership, ID: userID + "/" + organizationID}
	}
	delete(tx.state.memberships, key)
	tx.recordChange(Change{Entity: domain.EntityMembership, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSectionType stores a section type catalog entry.
func (tx *Transaction) CreateSectionType(st SectionType) (SectionType, error) {
	if st.ID == "" {
		st.ID = tx.store.idFn()
	}
	if _, exists := tx.state.sectionTypes[st.ID]; exists {
		return SectionType{}, fmt.Errorf("section type %q already exists", st.ID)
	}
	st.CreatedAt = tx.now
	st.UpdatedAt = tx.now
	tx.state.sectionTypes[st.ID] = st
	tx.recordChange(Change{Entity: domain.EntitySectionType, Action: domain.ActionCreate, After: st})
	return st, nil
}

// DeleteSectionType removes a section type.
func (tx *Transaction) DeleteSectionType(id string) error {
	current, ok := tx.state.sectionTypes[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySectionType, ID: id}
	}
	delete(tx.state.sectionTypes, id)
	tx.recordChange(Change{Entity: domain.EntitySectionType, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSong stores a new song.
func (tx *Transaction) CreateSong(song Song) (Song, error) {
	if song.ID == "" {
		song.ID = tx.store.idFn()
	}
	if _, exists := tx.state.songs[song.ID]; exists {
		return Song{}, fmt.Errorf("song %q already exists", song.ID)
	}
	song.CreatedAt = tx.now
	song.UpdatedAt = tx.now
	tx.state.songs[song.ID] = song
	tx.recordChange(Change{Entity: domain.EntitySong, Action: domain.ActionCreate, After: song})
	return song, nil
}

// UpdateSong mutates an existing song.
func (tx *Transaction) UpdateSong(id string, mutator func(*Song) error) (Song, error) {
	current, ok := tx.state.songs[id]
	if !ok {
		return Song{}, domain.NotFoundError{Entity: domain.EntitySong, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Song{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.songs[id] = current
	tx.recordChange(Change{Entity: domain.EntitySong, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSong removes a song from state.
func (tx *Transaction) DeleteSong(id string) error {
	current, ok := tx.state.songs[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySong, ID: id}
	}
	delete(tx.state.songs, id)
	tx.recordChange(Change{Entity: domain.EntitySong, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateTag stores a new tag.
func (tx *Transaction) CreateTag(tag Tag) (Tag, error) {
	if tag.ID == "" {
		tag.ID = tx.store.idFn()
	}
	if _, exists := tx.state.tags[tag.ID]; exists {
		return Tag{}, fmt.Errorf("tag %q already exists", tag.ID)
	}
	tag.CreatedAt = tx.now
	tag.UpdatedAt = tx.now
	tx.state.tags[tag.ID] = tag
	tx.recordChange(Change{Entity: domain.EntityTag, Action: domain.ActionCreate, After: tag})
	return tag, nil
}

// DeleteTag removes a tag.
func (tx *Transaction) DeleteTag(id string) error {
	current, ok := tx.state.tags[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityTag, ID: id}
	}
	delete(tx.state.tags, id)
	tx.recordChange(Change{Entity: domain.EntityTag, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSongTag stores a song/tag association. Duplicate pairs error; the
// service treats re-tagging as a no-op before calling here.
func (tx *Transaction) CreateSongTag(st SongTag) (SongTag, error) {
	key := songTagKey(st.SongID, st.TagID)
	if _, exists := tx.state.songTags[key]; exists {
		return SongTag{}, fmt.Errorf("song %s already tagged with %s", st.SongID, st.TagID)
	}
	st.CreatedAt = tx.now
	tx.state.songTags[key] = st
	tx.recordChange(Change{Entity: domain.EntitySongTag, Action: domain.ActionCreate, After: st})
	return st, nil
}

// DeleteSongTag removes a song/tag association.
func (tx *Transaction) DeleteSongTag(songID, tagID string) error {
	key := songTagKey(songID, tagID)
	current, ok := tx.state.songTags[key]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySongTag, ID: songID + "/" + tagID}
	}
	delete(tx.state.songTags, key)
	tx.recordChange(Change{Entity: domain.EntitySongTag, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateResource stores a resource record.
func (tx *Transaction) CreateResource(r Resource) (Resource, error) {
	if r.ID == "" {
		r.ID = tx.store.idFn()
	}
	if _, exists := tx.state.resources[r.ID]; exists {
		return Resource{}, fmt.Errorf("resource %q already exists", r.ID)
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	if r.Status == "" {
		r.Status = domain.ResourceQueued
	}
	if r.StatusChangedAt.IsZero() {
		r.StatusChangedAt = tx.now
	}
	tx.state.resources[r.ID] = cloneResource(r)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionCreate, After: cloneResource(r)})
	return cloneResource(r), nil
}

// UpdateResource mutates a resource.
func (tx *Transaction) UpdateResource(id string, mutator func(*Resource) error) (Resource, error) {
	current, ok := tx.state.resources[id]
	if !ok {
		return Resource{}, domain.NotFoundError{Entity: domain.EntityResource, ID: id}
	}
	before := cloneResource(current)
	if err := mutator(&current); err != nil {
		return Resource{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.resources[id] = cloneResource(current)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionUpdate, Before: before, After: cloneResource(current)})
	return cloneResource(current), nil
}

// DeleteResource removes a resource.
func (tx *Transaction) DeleteResource(id string) error {
	current, ok := tx.state.resources[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityResource, ID: id}
	}
	delete(tx.state.resources, id)
	tx.recordChange(Change{Entity: domain.EntityResource, Action: domain.ActionDelete, Before: cloneResource(current)})
	return nil
}

// CreateSet stores a set record.
func (tx *Transaction) CreateSet(set Set) (Set, error) {
	if set.ID == "" {
		set.ID = tx.store.idFn()
	}
	if _, exists := tx.state.sets[set.ID]; exists {
		return Set{}, fmt.Errorf("set %q already exists", set.ID)
	}
	set.CreatedAt = tx.now
	set.UpdatedAt = tx.now
	tx.state.sets[set.ID] = cloneSet(set)
	tx.recordChange(Change{Entity: domain.EntitySet, Action: domain.ActionCreate, After: cloneSet(set)})
	return cloneSet(set), nil
}

// UpdateSet mutates an existing set.
func (tx *Transaction) UpdateSet(id string, mutator func(*Set) error) (Set, error) {
	current, ok := tx.state.sets[id]
	if !ok {
		return Set{}, domain.NotFoundError{Entity: domain.EntitySet, ID: id}
	}
	before := cloneSet(current)
	if err := mutator(&current); err != nil {
		return Set{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.sets[id] = cloneSet(current)
	tx.recordChange(Change{Entity: domain.EntitySet, Action: domain.ActionUpdate, Before: before, After: cloneSet(current)})
	return cloneSet(current), nil
}

// DeleteSet removes a set from state.
func (tx *Transaction) DeleteSet(id string) error {
	current, ok := tx.state.sets[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySet, ID: id}
	}
	delete(tx.state.sets, id)
	tx.recordChange(Change{Entity: domain.EntitySet, Action: domain.ActionDelete, Before: cloneSet(current)})
	return nil
}

// CreateSection stores a set section.
func (tx *Transaction) CreateSection(section SetSection) (SetSection, error) {
	if section.ID == "" {
		section.ID = tx.store.idFn()
	}
	if _, exists := tx.state.sections[section.ID]; exists {
		return SetSection{}, fmt.Errorf("section %q already exists", section.ID)
	}
	section.CreatedAt = tx.now
	section.UpdatedAt = tx.now
	tx.state.sections[section.ID] = section
	tx.recordChange(Change{Entity: domain.EntitySection, Action: domain.ActionCreate, After: section})
	return section, nil
}

// UpdateSection mutates a set section.
func (tx *Transaction) UpdateSection(id string, mutator func(*SetSection) error) (SetSection, error) {
	current, ok := tx.state.sections[id]
	if !ok {
		return SetSection{}, domain.NotFoundError{Entity: domain.EntitySection, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return SetSection{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.sections[id] = current
	tx.recordChange(Change{Entity: domain.EntitySection, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSection removes a set section.
func (tx *Transaction) DeleteSection(id string) error {
	current, ok := tx.state.sections[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySection, ID: id}
	}
	delete(tx.state.sections, id)
	tx.recordChange(Change{Entity: domain.EntitySection, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreatePlacement stores a song placement.
func (tx *Transaction) CreatePlacement(p SetSectionSong) (SetSectionSong, error) {
	if p.ID == "" {
		p.ID = tx.store.idFn()
	}
	if _, exists := tx.state.placements[p.ID]; exists {
		return SetSectionSong{}, fmt.Errorf("placement %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.placements[p.ID] = clonePlacement(p)
	tx.recordChange(Change{Entity: domain.EntityPlacement, Action: domain.ActionCreate, After: clonePlacement(p)})
	return clonePlacement(p), nil
}

// UpdatePlacement mutates a song placement.
func (tx *Transaction) UpdatePlacement(id string, mutator func(*SetSectionSong) error) (SetSectionSong, error) {
	current, ok := tx.state.placements[id]
	if !ok {
		return SetSectionSong{}, domain.NotFoundError{Entity: domain.EntityPlacement, ID: id}
	}
	before := clonePlacement(current)
	if err := mutator(&current); err != nil {
		return SetSectionSong{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.placements[id] = clonePlacement(current)
	tx.recordChange(Change{Entity: domain.EntityPlacement, Action: domain.ActionUpdate, Before: before, After: clonePlacement(current)})
	return clonePlacement(current), nil
}

// DeletePlacement removes a song placement.
func (tx *Transaction) DeletePlacement(id string) error {
	current, ok := tx.state.placements[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityPlacement, ID: id}
	}
	delete(tx.state.placements, id)
	tx.recordChange(Change{Entity: domain.EntityPlacement, Action: domain.ActionDelete, Before: clonePlacement(current)})
	return nil
}

// Finders on the transactional state ----------------------------------------

// FindOrganization retrieves an organization from the transaction snapshot.
func (tx *Transaction) FindOrganization(id string) (Organization, bool) {
	org, ok := tx.state.organizations[id]
	return org, ok
}

// FindMembership retrieves a membership row.
func (tx *Transaction) FindMembership(userID, organizationID string) (Membership, bool) {
	m, ok := tx.state.memberships[membershipKey(userID, organizationID)]
	return m, ok
}

// FindSectionType retrieves a section type.
func (tx *Transaction) FindSectionType(id string) (SectionType, bool) {
	st, ok := tx.state.sectionTypes[id]
	return st, ok
}

// FindSong retrieves a song.
func (tx *Transaction) FindSong(id string) (Song, bool) {
	song, ok := tx.state.songs[id]
	return song, ok
}

// FindTag retrieves a tag by ID.
func (tx *Transaction) FindTag(id string) (Tag, bool) {
	tag, ok := tx.state.tags[id]
	return tag, ok
}

// FindTagByText retrieves the tag with the given text inside one organization.
func (tx *Transaction) FindTagByText(organizationID, text string) (Tag, bool) {
	for _, tag := range tx.state.tags {
		if tag.OrganizationID == organizationID && tag.Text == text {
			return tag, true
		}
	}
	return Tag{}, false
}

// FindResource retrieves a resource.
func (tx *Transaction) FindResource(id string) (Resource, bool) {
	r, ok := tx.state.resources[id]
	if !ok {
		return Resource{}, false
	}
	return cloneResource(r), true
}

// FindSet retrieves a set.
func (tx *Transaction) FindSet(id string) (Set, bool) {
	set, ok := tx.state.sets[id]
	if !ok {
		return Set{}, false
	}
	return cloneSet(set), true
}

// FindSection retrieves a set section.
func (tx *Transaction) FindSection(id string) (SetSection, bool) {
	section, ok := tx.state.sections[id]
	return section, ok
}

// FindPlacement retrieves a song placement.
func (tx *Transaction) FindPlacement(id string) (SetSectionSong, bool) {
	p, ok := tx.state.placements[id]
	if !ok {
		return SetSectionSong{}, false
	}
	return clonePlacement(p), true
}

// Scoped listings on the transactional state --------------------------------

// ListSectionsOf returns a set's sections sorted by position.
func (tx *Transaction) ListSectionsOf(setID string) []SetSection {
	return sectionsOf(&tx.state, setID)
}

// ListPlacementsOf returns a section's placements sorted by position.
func (tx *Transaction) ListPlacementsOf(sectionID string) []SetSectionSong {
	return placementsOf(&tx.state, sectionID)
}

// ListPlacementsOfSong returns every placement referencing the song.
func (tx *Transaction) ListPlacementsOfSong(songID string) []SetSectionSong {
	var out []SetSectionSong
	for _, p := range tx.state.placements {
		if p.SongID == songID {
			out = append(out, clonePlacement(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListResourcesOf returns a song's resources ordered by creation time.
func (tx *Transaction) ListResourcesOf(songID string) []Resource {
	return resourcesOf(&tx.state, songID)
}

// ListSongTagsOf returns a song's tag associations.
func (tx *Transaction) ListSongTagsOf(songID string) []SongTag {
	return songTagsOf(&tx.state, songID)
}

// Shared sorted accessors over a state value ---------------------------------

func sectionsOf(st *state, setID string) []SetSection {
	var out []SetSection
	for _, section := range st.sections {
		if section.SetID == setID {
			out = append(out, section)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func placementsOf(st *state, sectionID string) []SetSectionSong {
	var out []SetSectionSong
	for _, p := range st.placements {
		if p.SetSectionID == sectionID {
			out = append(out, clonePlacement(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func resourcesOf(st *state, songID string) []Resource {
	var out []Resource
	for _, r := range st.resources {
		if r.SongID == songID {
			out = append(out, cloneResource(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func songTagsOf(st *state, songID string) []SongTag {
	var out []SongTag
	for _, assoc := range st.songTags {
		if assoc.SongID == songID {
			out = append(out, assoc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TagID < out[j].TagID })
	return out
}

func lessByNameID(a, b, aID, bID string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return aID < bID
}
