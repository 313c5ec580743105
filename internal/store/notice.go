package store

import (
	"errors"

	"github.com/smartboard-dev/smartboard/internal/models"
	"gorm.io/gorm"
)

// NoticeFields carries the mutable fields of a notice for create and update
// calls. Validation of required fields and enumerated values happens at the
// presentation boundary before the gateway is reached.
type NoticeFields struct {
	Title          string
	Description    string
	Priority       string
	Status         string
	AttachmentPath string
}

// NoticeStore is the only component that executes statements against the
// notices table. Every method scopes its session to the single call; writes
// run inside gorm's per-call transaction.
type NoticeStore struct {
	db *gorm.DB
}

func NewNoticeStore(db *gorm.DB) *NoticeStore {
	return &NoticeStore{db: db}
}

// ListAll returns every notice ordered by last-touched time, newest first.
// An empty table yields an empty slice, a store failure yields an error —
// the two are never conflated.
func (s *NoticeStore) ListAll() ([]models.Notice, error) {
	notices := make([]models.Notice, 0)

	if err := s.db.Order("updated_at DESC").Find(&notices).Error; err != nil {
		return nil, wrap("list notices", err)
	}

	return notices, nil
}

// GetByID looks up a single notice by primary key. A miss is ErrNotFound,
// not a failure.
func (s *NoticeStore) GetByID(id uint) (*models.Notice, error) {
	var notice models.Notice

	if err := s.db.First(&notice, id).Error; err != nil {
		return nil, wrap("get notice", err)
	}

	return &notice, nil
}

// Create inserts a new notice and fills in the store-assigned id and
// timestamps on the passed record.
func (s *NoticeStore) Create(notice *models.Notice) error {
	if err := s.db.Create(notice).Error; err != nil {
		return wrap("create notice", err)
	}

	return nil
}

// Update replaces the mutable fields of the notice with the given id and
// refreshes its UpdatedAt. The publisher stays whoever created the row.
// Returns the stored row, or ErrNotFound if the id does not exist.
func (s *NoticeStore) Update(id uint, fields NoticeFields) (*models.Notice, error) {
	var notice models.Notice

	if err := s.db.First(&notice, id).Error; err != nil {
		return nil, wrap("update notice", err)
	}

	notice.Title = fields.Title
	notice.Description = fields.Description
	notice.Priority = fields.Priority
	notice.Status = fields.Status
	notice.AttachmentPath = fields.AttachmentPath

	if err := s.db.Save(&notice).Error; err != nil {
		return nil, wrap("update notice", err)
	}

	return &notice, nil
}

// Delete hard-deletes the notice with the given id. Returns false with a nil
// error when no such row exists, false with an error on a store failure.
func (s *NoticeStore) Delete(id uint) (bool, error) {
	var notice models.Notice

	if err := s.db.First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrap("delete notice", err)
	}

	if err := s.db.Delete(&notice).Error; err != nil {
		return false, wrap("delete notice", err)
	}

	return true, nil
}
