package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
	"gorm.io/gorm"
)

type MemberService struct {
	db               *gorm.DB
	memberRepository *MemberRepository
}

func NewMemberService(db *gorm.DB, memberRepository *MemberRepository) *MemberService {
	return &MemberService{
		db:               db,
		memberRepository: memberRepository,
	}
}

type fields struct {
	name, email, contact, handle string
	role                         model.Role
}

// normalize trims every field and enforces the enrollment rules. Binding tags
// cover HTTP callers; this covers everyone else.
func normalize(name, email, contact, handle, role string) (fields, error) {
	f := fields{
		name:    strings.TrimSpace(name),
		email:   strings.TrimSpace(email),
		contact: strings.TrimSpace(contact),
		handle:  strings.TrimSpace(handle),
	}
	if f.name == "" || f.email == "" {
		return f, sharedError.WithMessage(sharedError.ErrValidation, "Name and email are required.")
	}
	r, ok := model.ParseRole(strings.TrimSpace(role))
	if !ok {
		return f, sharedError.WithMessage(sharedError.ErrValidation, fmt.Sprintf("Unknown role %q.", role))
	}
	f.role = r
	return f, nil
}

// Create enrolls a new active member. Nothing is written when validation fails.
func (s *MemberService) Create(ctx context.Context, in CreateInput) (*model.Member, error) {
	log := logger.FromContext(ctx)

	f, err := normalize(in.Name, in.Email, in.Contact, in.Handle, in.Role)
	if err != nil {
		return nil, err
	}

	m := model.NewMember(f.name, f.email, f.contact, f.handle, f.role)
	if err := s.memberRepository.Create(ctx, s.db, m); err != nil {
		log.Error("Failed to create member", "error", err)
		return nil, fmt.Errorf("create member: %w", err)
	}

	log.Info("Member created", "member_id", m.ID, "name", logger.MaskName(m.Name), "email", logger.MaskEmail(m.Email), "role", m.Role)
	return m, nil
}

func (s *MemberService) Update(ctx context.Context, memberID uint32, in UpdateRequest) (*model.Member, error) {
	f, err := normalize(in.Name, in.Email, in.Contact, in.Handle, in.Role)
	if err != nil {
		return nil, err
	}

	var updated *model.Member
	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		m, err := s.find(ctx, tx, memberID)
		if err != nil {
			return err
		}

		m.Name, m.Email, m.Contact, m.Handle, m.Role = f.name, f.email, f.contact, f.handle, f.role
		if err := s.memberRepository.Save(ctx, tx, m); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Member updated", "member_id", memberID)
	return updated, nil
}

func (s *MemberService) Get(ctx context.Context, memberID uint32) (*model.Member, error) {
	return s.find(ctx, s.db, memberID)
}

func (s *MemberService) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	m, err := s.memberRepository.FindByEmail(ctx, s.db, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no member with email %s: %w", logger.MaskEmail(email), ErrMemberNotFound)
		}
		return nil, fmt.Errorf("find member by email: %w", err)
	}
	return m, nil
}

// List returns members ordered by name.
func (s *MemberService) List(ctx context.Context, activeOnly bool) ([]model.Member, error) {
	members, err := s.memberRepository.List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// Deactivate soft-deletes a member. Deactivating an inactive member is a no-op.
func (s *MemberService) Deactivate(ctx context.Context, memberID uint32) error {
	m, err := s.find(ctx, s.db, memberID)
	if err != nil {
		return err
	}
	if !m.IsActive() {
		return nil
	}

	if err := s.memberRepository.SetStatus(ctx, s.db, memberID, model.StatusInactive); err != nil {
		return fmt.Errorf("deactivate member: %w", err)
	}

	logger.FromContext(ctx).Info("Member deactivated", "member_id", memberID)
	return nil
}

func (s *MemberService) find(ctx context.Context, db *gorm.DB, memberID uint32) (*model.Member, error) {
	m, err := s.memberRepository.FindByID(ctx, db, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member not found memberID=%d: %w", memberID, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return m, nil
}
