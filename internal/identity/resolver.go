// Package identity maps scanned tokens and operator selections to members.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"gorm.io/gorm"
)

// Reason classifies why a token did not resolve.
type Reason int

const (
	// NotAnID is a token that is not a positive integer.
	NotAnID Reason = iota + 1
	// UnknownMember is a well-formed ID with no member behind it.
	UnknownMember
	// DecoyLink is a URL, usually the registration poster. Callers ignore it.
	DecoyLink
)

func (r Reason) String() string {
	switch r {
	case NotAnID:
		return "not_an_id"
	case UnknownMember:
		return "unknown_member"
	case DecoyLink:
		return "decoy_link"
	default:
		return "unknown"
	}
}

// Unresolvable is informational. It never indicates a store failure.
type Unresolvable struct {
	Token  string
	Reason Reason
}

func (e *Unresolvable) Error() string {
	return fmt.Sprintf("unresolvable token %q: %s", e.Token, e.Reason)
}

type Resolver struct {
	db               *gorm.DB
	memberRepository *member.MemberRepository
}

func NewResolver(db *gorm.DB, memberRepository *member.MemberRepository) *Resolver {
	return &Resolver{
		db:               db,
		memberRepository: memberRepository,
	}
}

// ResolveScanned returns the member ID encoded in token. Inactive members
// still resolve. Any other failure than *Unresolvable is a store error.
func (r *Resolver) ResolveScanned(ctx context.Context, token string) (uint32, error) {
	token = strings.TrimSpace(token)

	if isLink(token) {
		return 0, &Unresolvable{Token: token, Reason: DecoyLink}
	}

	id, err := strconv.ParseUint(token, 10, 32)
	if err != nil || id == 0 {
		return 0, &Unresolvable{Token: token, Reason: NotAnID}
	}

	if _, err := r.memberRepository.FindByID(ctx, r.db, uint32(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &Unresolvable{Token: token, Reason: UnknownMember}
		}
		return 0, fmt.Errorf("resolve token: %w", err)
	}
	return uint32(id), nil
}

// ResolveByID loads the member an operator selected.
func (r *Resolver) ResolveByID(ctx context.Context, memberID uint32) (*model.Member, error) {
	m, err := r.memberRepository.FindByID(ctx, r.db, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resolve memberID=%d: %w", memberID, member.ErrMemberNotFound)
		}
		return nil, fmt.Errorf("resolve member: %w", err)
	}
	return m, nil
}

func isLink(token string) bool {
	lower := strings.ToLower(token)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// AsUnresolvable reports whether err is an *Unresolvable and returns it.
func AsUnresolvable(err error) (*Unresolvable, bool) {
	var u *Unresolvable
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}
