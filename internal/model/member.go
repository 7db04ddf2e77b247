package model

// Member is a person on the roster. Members are never hard-deleted;
// deactivation flips Status so attendance history stays attributable.
type Member struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Name    string       `gorm:"column:name;type:VARCHAR(100);not null;index:idx_member_name"`
	Email   string       `gorm:"column:email;type:VARCHAR(255);not null;index:idx_member_email"`
	Contact string       `gorm:"column:contact;type:VARCHAR(50)"`
	Handle  string       `gorm:"column:handle;type:VARCHAR(255)"` // social handle, e.g. facebook.com/username
	Role    Role         `gorm:"column:role;type:VARCHAR(20);not null"`
	Status  MemberStatus `gorm:"column:status;type:VARCHAR(10);not null;default:active"`

	BaseEntity
}

// TableName specifies the table name for Member
func (*Member) TableName() string {
	return "member"
}

// NewMember creates an active member. Callers validate name, email and role first.
func NewMember(name, email, contact, handle string, role Role) *Member {
	return &Member{
		Name:    name,
		Email:   email,
		Contact: contact,
		Handle:  handle,
		Role:    role,
		Status:  StatusActive,
	}
}

func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}
