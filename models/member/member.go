package member

import "time"

// Member is a verified voter identity. Members are created by administrative
// entry and are never deleted once a vote referencing them exists; there is
// no delete path in this service.
type Member struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone            string    `gorm:"type:varchar(20);not null;unique" json:"phone"`
	MembershipNumber string    `gorm:"type:varchar(50);not null;unique" json:"membership_number"`
	IsEligible       bool      `gorm:"default:true" json:"is_eligible"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
