package Session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"FuelLog/Models"
	"FuelLog/xerrors"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Snapshot is an immutable view of the current session, taken once per
// operation. Readers never observe a half-written session.
type Snapshot struct {
	Token        string
	UserID       string
	Name         string
	MobileNumber string
	Role         string
}

func (s Snapshot) IsAdmin() bool {
	return s.Role == "admin"
}

// Store owns the persisted session. It is the single writer: login saves,
// logout and 401 responses clear. Everything that issues a network call reads
// a Snapshot first.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save replaces the persisted session with the given identity.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Token == "" {
		return fmt.Errorf("%w: empty token", xerrors.ErrValidation)
	}

	if err := s.db.Where("1 = 1").Delete(&Models.SessionRow{}).Error; err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}
	row := Models.SessionRow{
		Token:        snap.Token,
		UserID:       snap.UserID,
		Name:         snap.Name,
		MobileNumber: snap.MobileNumber,
		Role:         snap.Role,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Current returns the stored session. It fails with ErrNoSession when none is
// stored, and with ErrAuth (clearing the row) when the stored token is a JWT
// whose expiry has already passed, so an operation never bothers the server
// with a token known to be dead.
func (s *Store) Current() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row Models.SessionRow
	err := s.db.Order("id DESC").First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return Snapshot{}, xerrors.ErrNoSession
		}
		return Snapshot{}, fmt.Errorf("failed to read session: %w", err)
	}
	if row.Token == "" {
		return Snapshot{}, xerrors.ErrNoSession
	}

	if tokenExpired(row.Token) {
		log.Println("Stored token is expired, clearing session")
		if err := s.db.Where("1 = 1").Delete(&Models.SessionRow{}).Error; err != nil {
			log.Printf("Error clearing expired session: %v", err)
		}
		return Snapshot{}, xerrors.ErrAuth
	}

	return Snapshot{
		Token:        row.Token,
		UserID:       row.UserID,
		Name:         row.Name,
		MobileNumber: row.MobileNumber,
		Role:         row.Role,
	}, nil
}

// Clear drops the persisted session. Used by logout and by the API client on
// any 401 response.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Where("1 = 1").Delete(&Models.SessionRow{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// tokenExpired does an unverified parse: the client holds no signing key, so
// it only inspects the exp claim. Opaque (non-JWT) tokens are left for the
// server to judge.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
