package models

// Priority values accepted on the notice write path.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Status values accepted on the notice write path. Read paths additionally
// tolerate legacy rows carrying "Active", "Rejected" or "Expired".
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDraft    = "Draft"
	StatusActive   = "Active"
	StatusRejected = "Rejected"
	StatusExpired  = "Expired"
)

type Notice struct {
	BaseModel

	Title          string `gorm:"not null" json:"title"`
	Description    string `gorm:"not null" json:"description"`
	Priority       string `gorm:"not null" json:"priority"` // "High", "Medium", "Low"
	Status         string `gorm:"not null" json:"status"`   // "Pending", "Approved", "Draft"
	PublishedBy    string `json:"published_by"`
	AttachmentPath string `json:"attachment_path"` // opaque path, never dereferenced here
}

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidStatus reports whether s is accepted on the write path.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusDraft:
		return true
	}
	return false
}

// Published reports whether the notice is visible on the public board.
func (n *Notice) Published() bool {
	return n.Status == StatusApproved || n.Status == StatusActive
}
