// Package memory is an in-process implementation of every repository port.
// It backs the memory storage driver and end-to-end service tests.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
)

// Store holds all entities behind one lock, so multi-entity writes are atomic.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	emails    map[string]string // lower-cased email -> user id
	profiles  map[string]domain.Profile
	units     map[string]domain.Unit
	locations map[string]domain.Location
	requests  map[string]domain.AccessRequest
	otps      []domain.OTPToken
	reports   map[string]domain.AvailabilityReport
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		emails:    make(map[string]string),
		profiles:  make(map[string]domain.Profile),
		units:     make(map[string]domain.Unit),
		locations: make(map[string]domain.Location),
		requests:  make(map[string]domain.AccessRequest),
		reports:   make(map[string]domain.AvailabilityReport),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:          s,
		ProfileRepo:       s,
		UnitRepo:          s,
		LocationRepo:      s,
		AccessRequestRepo: s,
		OTPRepo:           s,
		ReportRepo:        s,
	}
}

var (
	_ portsrepo.UserRepositoryFacade          = (*Store)(nil)
	_ portsrepo.ProfileRepositoryFacade       = (*Store)(nil)
	_ portsrepo.UnitRepositoryFacade          = (*Store)(nil)
	_ portsrepo.LocationRepositoryFacade      = (*Store)(nil)
	_ portsrepo.AccessRequestRepositoryFacade = (*Store)(nil)
	_ portsrepo.OTPRepositoryFacade           = (*Store)(nil)
	_ portsrepo.ReportRepositoryFacade        = (*Store)(nil)
)

// SeedLocations adds reference locations. Locations have no write port.
func (s *Store) SeedLocations(locations ...domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range locations {
		s.locations[l.LocationID] = l
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// idFilter turns the nil-means-all convention into a predicate.
func idFilter(ids []string) func(string) bool {
	if ids == nil {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortUnits(units []domain.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].OrderNumber != units[j].OrderNumber {
			return units[i].OrderNumber < units[j].OrderNumber
		}
		return units[i].Name < units[j].Name
	})
}
