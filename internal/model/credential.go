package model

// Credential gates the management interface.
type Credential struct {
	ID           uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string `gorm:"column:username;type:VARCHAR(100);not null;uniqueIndex:idx_credential_username"`
	PasswordHash string `gorm:"column:password_hash;type:VARCHAR(60);not null"`
	Role         string `gorm:"column:role;type:VARCHAR(20);not null;default:admin"`

	BaseEntity
}

func (*Credential) TableName() string {
	return "credential"
}

func NewCredential(username, passwordHash, role string) *Credential {
	return &Credential{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
}
