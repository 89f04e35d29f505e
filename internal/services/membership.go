package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MembershipService answers the membership predicate consulted before any
// reward-bearing feature. Errors never grant.
type MembershipService struct {
	db *sql.DB
}

func NewMembershipService(db *sql.DB) *MembershipService {
	return &MembershipService{db: db}
}

func (s *MembershipService) IsMember(userID uuid.UUID) (bool, error) {
	var isMember bool
	var memberUntil sql.NullTime

	err := s.db.QueryRow(
		"SELECT is_member, member_until FROM users WHERE id = $1",
		userID,
	).Scan(&isMember, &memberUntil)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %v", err)
	}

	if isMember && memberUntil.Valid && !memberUntil.Time.After(time.Now()) {
		return false, nil
	}

	return isMember, nil
}
