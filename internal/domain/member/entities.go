package member

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("member not found")

type Member struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	MemberID string `gorm:"size:32;uniqueIndex:ux_members_member_id" json:"member_id"`
	// Credit agent responsible for this member's portfolio.
	AgentID   string         `gorm:"size:32;index:idx_members_agent" json:"agent_id"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }
