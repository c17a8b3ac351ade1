package devapi

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wildguard/console/internal/core/domain"
)

var (
	errBadCredentials = errors.New("invalid credentials")
	errInactive       = errors.New("account is inactive")
	errUsernameTaken  = errors.New("username already exists")
	errEmailTaken     = errors.New("email already exists")
)

const defaultDetectionLimit = 20

type account struct {
	user         domain.User
	passwordHash []byte
}

type detectionRecord struct {
	domain.Detection
	at time.Time
}

type emergencyRecord struct {
	domain.EmergencyAlert
	at time.Time
}

type activityRecord struct {
	domain.ActivityEntry
	at time.Time
}

// Store holds the dev API's fixtures in memory.
type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	cost int
	seq  int

	accounts    map[string]*account
	cameras     []domain.Camera
	species     []domain.Species
	detections  []detectionRecord // newest first
	emergencies []emergencyRecord
	contacts    []domain.EmergencyContact
	activity    []activityRecord
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock fixes the store's notion of now.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) StoreOption {
	return func(s *Store) { s.cost = cost }
}

// NewStore returns a store seeded with the demo accounts and field data.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		accounts: make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) nextID() domain.ID {
	s.seq++
	return domain.IDFromInt(s.seq)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// --- accounts ---

func (s *Store) addAccount(username, password, email, name string, role domain.Role) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, err
	}
	active := true
	u := domain.User{
		ID:       s.nextID(),
		Username: username,
		Role:     role,
		Name:     name,
		Email:    email,
		IsActive: &active,
	}
	s.accounts[username] = &account{user: u, passwordHash: hash}
	return u, nil
}

// Authenticate checks a username/password pair and records the login.
func (s *Store) Authenticate(username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return domain.User{}, errBadCredentials
	}
	if acc.user.IsActive != nil && !*acc.user.IsActive {
		return domain.User{}, errInactive
	}
	acc.user.LastLogin = stamp(s.now())
	s.logActivity(acc.user.ID, "login", "User", acc.user.ID.String(), nil)
	return acc.user, nil
}

// Register creates a field user account.
func (s *Store) Register(form domain.Registration) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[form.Username]; ok {
		return domain.User{}, errUsernameTaken
	}
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.user.Email, form.Email) {
			return domain.User{}, errEmailTaken
		}
	}
	return s.addAccount(form.Username, form.Password, form.Email, form.FullName, domain.RoleUser)
}

// User looks an account up by id.
func (s *Store) User(id domain.ID) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// --- cameras ---

func (s *Store) Cameras(f domain.CameraFilter) []domain.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Camera, 0, len(s.cameras))
	for _, c := range s.cameras {
		switch f.Status {
		case "active":
			if !c.IsActive {
				continue
			}
		case "online":
			if !c.IsOnline {
				continue
			}
		case "offline":
			if c.IsOnline {
				continue
			}
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(c.Location), strings.ToLower(f.Location)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Store) CreateCamera(in domain.CameraInput) domain.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Camera{
		ID:                 s.nextID(),
		Name:               in.Name,
		Location:           in.Location,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		AltitudeM:          in.AltitudeM,
		IsActive:           true,
		IsOnline:           true,
		Resolution:         in.Resolution,
		BatteryLevel:       100,
		StorageAvailableGB: in.StorageAvailableGB,
		CreatedAt:          stamp(s.now()),
	}
	if in.BatteryLevel != nil {
		c.BatteryLevel = *in.BatteryLevel
	}
	s.cameras = append(s.cameras, c)
	return c
}

func (s *Store) UpdateCamera(id domain.ID, in domain.CameraUpdate) (domain.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.cameras, func(c domain.Camera) bool { return c.ID == id })
	if i < 0 {
		return domain.Camera{}, domain.ErrNotFound
	}
	c := &s.cameras[i]
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.IsOnline != nil {
		c.IsOnline = *in.IsOnline
	}
	if in.BatteryLevel != nil {
		c.BatteryLevel = *in.BatteryLevel
	}
	if in.StorageAvailableGB != nil {
		v := *in.StorageAvailableGB
		c.StorageAvailableGB = &v
	}
	return *c, nil
}

func (s *Store) camera(id domain.ID) (domain.Camera, bool) {
	i := slices.IndexFunc(s.cameras, func(c domain.Camera) bool { return c.ID == id })
	if i < 0 {
		return domain.Camera{}, false
	}
	return s.cameras[i], true
}

// --- species ---

func (s *Store) Species() []domain.Species {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.species)
}

func (s *Store) CreateSpecies(in domain.SpeciesInput) domain.Species {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := domain.Species{ID: s.nextID(), CreatedAt: stamp(s.now())}
	applySpecies(&sp, in)
	s.species = append(s.species, sp)
	return sp
}

func (s *Store) UpdateSpecies(id domain.ID, in domain.SpeciesInput) (domain.Species, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.species, func(sp domain.Species) bool { return sp.ID == id })
	if i < 0 {
		return domain.Species{}, domain.ErrNotFound
	}
	applySpecies(&s.species[i], in)
	return s.species[i], nil
}

// applySpecies copies the set fields of in onto sp.
func applySpecies(sp *domain.Species, in domain.SpeciesInput) {
	if in.Name != "" {
		sp.Name = in.Name
	}
	if in.ScientificName != "" {
		sp.ScientificName = in.ScientificName
	}
	if in.ConservationStatus != "" {
		sp.ConservationStatus = in.ConservationStatus
	}
	if in.Description != "" {
		sp.Description = in.Description
	}
	if in.Habitat != "" {
		sp.Habitat = in.Habitat
	}
	if in.AverageWeightKg != nil {
		sp.AverageWeightKg = in.AverageWeightKg
	}
	if in.AverageHeightM != nil {
		sp.AverageHeightM = in.AverageHeightM
	}
	if in.IdentificationFeatures != nil {
		sp.IdentificationFeatures = slices.Clone(in.IdentificationFeatures)
	}
	if in.IsEndangered != nil {
		sp.IsEndangered = *in.IsEndangered
	}
	if in.PoachingRiskLevel != "" {
		sp.PoachingRiskLevel = in.PoachingRiskLevel
	}
}

// --- detections ---

// Detections applies the backend's server-side filter and pagination.
func (s *Store) Detections(q domain.DetectionQuery) domain.DetectionPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = defaultDetectionLimit
	}
	if offset < 0 {
		offset = 0
	}

	var matched []domain.Detection
	for _, d := range s.detections {
		if q.ObjectType != "" && !strings.Contains(strings.ToLower(d.DetectedObject), strings.ToLower(q.ObjectType)) {
			continue
		}
		if q.AlertLevel != "" && d.AlertLevel != q.AlertLevel {
			continue
		}
		if q.Verified != nil && d.IsVerified != *q.Verified {
			continue
		}
		matched = append(matched, d.Detection)
	}

	page := domain.DetectionPage{Total: len(matched), Limit: limit, Offset: offset, Data: []domain.Detection{}}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Data = matched[offset:end]
	}
	page.Count = len(page.Data)
	return page
}

// Detection returns one detection and records that viewer looked at it.
func (s *Store) Detection(id, viewer domain.ID) (domain.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.detectionIndex(id)
	if i < 0 {
		return domain.Detection{}, domain.ErrNotFound
	}
	s.logActivity(viewer, "viewed_detection", "Detection", id.String(), nil)
	return s.detections[i].Detection, nil
}

func (s *Store) VerifyDetection(id, by domain.ID, in domain.VerifyInput) (domain.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.detectionIndex(id)
	if i < 0 {
		return domain.Detection{}, domain.ErrNotFound
	}
	d := &s.detections[i].Detection
	d.IsVerified = in.Verified
	d.FalsePositive = in.FalsePositive
	d.Notes = in.Notes
	s.logActivity(by, "verified_detection", "Detection", id.String(), map[string]any{
		"verified":       in.Verified,
		"false_positive": in.FalsePositive,
	})
	return *d, nil
}

func (s *Store) detectionIndex(id domain.ID) int {
	return slices.IndexFunc(s.detections, func(d detectionRecord) bool { return d.ID == id })
}

// --- emergencies ---

func (s *Store) Emergencies(f domain.EmergencyFilter) []domain.EmergencyAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EmergencyAlert, 0, len(s.emergencies))
	for _, e := range s.emergencies {
		if f.Severity != "" && e.Severity != f.Severity {
			continue
		}
		if f.UnresolvedOnly && e.IsResolved {
			continue
		}
		out = append(out, e.EmergencyAlert)
	}
	return out
}

func (s *Store) ResolveEmergency(id, by domain.ID, notes string) (domain.EmergencyAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.emergencies, func(e emergencyRecord) bool { return e.ID == id })
	if i < 0 {
		return domain.EmergencyAlert{}, domain.ErrNotFound
	}
	e := &s.emergencies[i].EmergencyAlert
	e.IsResolved = true
	e.ResolutionNotes = notes
	e.ResolvedAt = stamp(s.now())
	s.logActivity(by, "resolved_emergency", "EmergencyAlert", id.String(), nil)
	return *e, nil
}

// --- contacts ---

func (s *Store) Contacts() []domain.EmergencyContact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.contacts)
}

func newContact(id domain.ID, in domain.ContactInput) domain.EmergencyContact {
	return domain.EmergencyContact{
		ID:           id,
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		Email:        in.Email,
		Organization: in.Organization,
		IsPrimary:    in.IsPrimary,
	}
}

func (s *Store) CreateContact(in domain.ContactInput) domain.EmergencyContact {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := newContact(s.nextID(), in)
	s.contacts = append(s.contacts, c)
	return c
}

func (s *Store) UpdateContact(id domain.ID, in domain.ContactInput) (domain.EmergencyContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.contacts, func(c domain.EmergencyContact) bool { return c.ID == id })
	if i < 0 {
		return domain.EmergencyContact{}, domain.ErrNotFound
	}
	c := newContact(id, in)
	s.contacts[i] = c
	return c, nil
}

func (s *Store) DeleteContact(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.contacts, func(c domain.EmergencyContact) bool { return c.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	return nil
}

// --- activity ---

// logActivity must be called with the write lock held.
func (s *Store) logActivity(user domain.ID, action, entityType, entityID string, details map[string]any) {
	if user == "" {
		return
	}
	now := s.now()
	s.activity = append(s.activity, activityRecord{
		ActivityEntry: domain.ActivityEntry{
			ID:         s.nextID(),
			UserID:     user,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
			CreatedAt:  stamp(now),
		},
		at: now,
	})
}

// Activity returns user's entries of the last days, newest first.
func (s *Store) Activity(user domain.ID, days int) []domain.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	out := []domain.ActivityEntry{}
	for i := len(s.activity) - 1; i >= 0; i-- {
		a := s.activity[i]
		if a.UserID == user && !a.at.Before(since) {
			out = append(out, a.ActivityEntry)
		}
	}
	return out
}
