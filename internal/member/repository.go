package member

import (
	"context"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"gorm.io/gorm"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (m *MemberRepository) Create(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (m *MemberRepository) FindByID(ctx context.Context, db *gorm.DB, ID uint32) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("id = ?", ID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail returns the earliest member registered with email.
func (m *MemberRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("email = ?", email).Order("id").First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (m *MemberRepository) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]model.Member, error) {
	var members []model.Member
	q := db.WithContext(ctx).Model(&model.Member{})
	if activeOnly {
		q = q.Where("status = ?", model.StatusActive)
	}
	err := q.Order("name").Order("id").Find(&members).Error
	return members, err
}

// Save writes every column of member.
func (m *MemberRepository) Save(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Save(member).Error
}

func (m *MemberRepository) SetStatus(ctx context.Context, db *gorm.DB, ID uint32, status model.MemberStatus) error {
	return db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", ID).
		Update("status", status).Error
}
