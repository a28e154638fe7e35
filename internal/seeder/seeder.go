// Package seeder loads the demo campus data for development: a couple of
// identities with known passwords, the club catalog and a handful of events
// with registrations in various lifecycle states.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authModels "campushub/internal/auth/models"
	regModels "campushub/internal/registration/models"
	id "campushub/pkg/domain"
)

// IdentityStore accepts seeded identities.
type IdentityStore interface {
	Save(ctx context.Context, identity *authModels.Identity) error
}

// CatalogStore accepts seeded events and clubs.
type CatalogStore interface {
	Save(ctx context.Context, event *regModels.Event) error
	SaveClub(ctx context.Context, club *regModels.Club) error
}

// RegistrationStore accepts seeded registrations.
type RegistrationStore interface {
	Save(ctx context.Context, reg *regModels.Registration) error
}

// Seeder writes the demo dataset into the given stores.
type Seeder struct {
	identities    IdentityStore
	catalog       CatalogStore
	registrations RegistrationStore
	logger        *slog.Logger
	now           func() time.Time
}

func New(identities IdentityStore, catalog CatalogStore, registrations RegistrationStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		identities:    identities,
		catalog:       catalog,
		registrations: registrations,
		logger:        logger,
		now:           time.Now,
	}
}

// Demo login credentials. Matching what the campus pilot used.
const (
	AdminEmail      = "admin@campus.edu"
	AdminPassword   = "admin123"
	StudentEmail    = "student@campus.edu"
	StudentPassword = "student123"
)

// Seed loads everything. Event seat counts are derived from the seeded
// registrations so the catalog starts consistent.
func (s *Seeder) Seed(ctx context.Context) error {
	now := s.now()

	if _, err := s.identity(ctx, AdminEmail, AdminPassword, authModels.RoleAdmin, "Dr. Sarah Johnson"); err != nil {
		return err
	}
	alex, err := s.identity(ctx, StudentEmail, StudentPassword, authModels.RoleStudent, "Alex Morgan")
	if err != nil {
		return err
	}
	emma, err := s.identity(ctx, "emma.davis@campus.edu", "emma-demo-1", authModels.RoleStudent, "Emma Davis")
	if err != nil {
		return err
	}

	for _, club := range []regModels.Club{
		{Name: "Tech Innovators", Category: "Technology", Description: "Coding, AI, and tech projects", Members: 45},
		{Name: "Drama Society", Category: "Arts", Description: "Theater and performing arts", Members: 32},
		{Name: "Sports Club", Category: "Sports", Description: "Various sports activities", Members: 67},
		{Name: "Music Ensemble", Category: "Arts", Description: "Orchestra and band", Members: 28},
		{Name: "Debate Team", Category: "Academic", Description: "Competitive debating", Members: 24},
	} {
		club.ID = id.ClubID(uuid.New())
		if err := s.catalog.SaveClub(ctx, &club); err != nil {
			return fmt.Errorf("seed club %q: %w", club.Name, err)
		}
	}

	hackathon := s.event("Annual Tech Hackathon", "Tech Innovators", "Technology", now.AddDate(0, 0, 14), "Computer Lab A", 50, "24-hour coding competition with amazing prizes", "Dr. Sarah Johnson")
	musical := s.event("Spring Musical Performance", "Drama Society", "Arts", now.AddDate(0, 0, 19), "Main Auditorium", 200, "Annual spring musical showcase", "Prof. Maria Garcia")
	basketball := s.event("Basketball Tournament Finals", "Sports Club", "Sports", now.AddDate(0, 0, 11), "Sports Complex", 100, "Championship match for inter-college tournament", "Coach Mike Williams")
	workshop := s.event("Workshop: React Advanced Patterns", "Tech Innovators", "Technology", now.AddDate(0, 0, 7), "Seminar Hall", 1, "Advanced React hooks and patterns", "Dr. Sarah Johnson")
	debate := s.event("Debate Championship", "Debate Team", "Academic", now.AddDate(0, 0, 24), "Conference Room", 30, "Inter-college debate competition", "Prof. James Chen")

	type seedReg struct {
		event   *regModels.Event
		student *authModels.Identity
		status  regModels.RegistrationStatus
		age     time.Duration
	}
	seedRegs := []seedReg{
		{hackathon, alex, regModels.StatusApproved, 96 * time.Hour},
		{musical, alex, regModels.StatusApproved, 72 * time.Hour},
		{basketball, emma, regModels.StatusPending, 48 * time.Hour},
		{workshop, emma, regModels.StatusApproved, 36 * time.Hour},
		{workshop, alex, regModels.StatusWaitlist, 24 * time.Hour},
	}

	for _, sr := range seedRegs {
		reg := &regModels.Registration{
			ID:           id.RegistrationID(uuid.New()),
			EventID:      sr.event.ID,
			StudentID:    sr.student.ID,
			StudentName:  sr.student.Name,
			StudentEmail: sr.student.Email,
			Status:       sr.status,
			CreatedAt:    now.Add(-sr.age),
		}
		if err := s.registrations.Save(ctx, reg); err != nil {
			return fmt.Errorf("seed registration: %w", err)
		}
		if sr.status.Counted() {
			sr.event.Registered++
		}
	}

	for _, event := range []*regModels.Event{hackathon, musical, basketball, workshop, debate} {
		if err := s.catalog.Save(ctx, event); err != nil {
			return fmt.Errorf("seed event %q: %w", event.Title, err)
		}
	}

	s.logger.Info("demo data seeded",
		"identities", 3,
		"clubs", 5,
		"events", 5,
		"registrations", len(seedRegs),
	)
	return nil
}

func (s *Seeder) identity(ctx context.Context, email, password string, role authModels.Role, name string) (*authModels.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", email, err)
	}
	identity := &authModels.Identity{
		ID:           id.StudentID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
	}
	if err := s.identities.Save(ctx, identity); err != nil {
		return nil, fmt.Errorf("seed identity %s: %w", email, err)
	}
	return identity, nil
}

func (s *Seeder) event(title, club, category string, date time.Time, venue string, capacity int, description, organizer string) *regModels.Event {
	return &regModels.Event{
		ID:          id.EventID(uuid.New()),
		Title:       title,
		Club:        club,
		Category:    category,
		Date:        date,
		Venue:       venue,
		Capacity:    capacity,
		Description: description,
		Organizer:   organizer,
		CreatedAt:   s.now(),
	}
}
