package Travel

import (
	"encoding/json"
	"fmt"
	"log"

	"FuelLog/Models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DraftStore keeps locally-started trips in the cache database until the
// server confirms them, so a submission interrupted by connectivity loss is
// not lost.
type DraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Save persists a draft keyed by the record's client-local id.
func (s *DraftStore) Save(record Models.TravelLogRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode travel draft: %w", err)
	}

	draft := Models.TravelDraft{DraftID: record.RecordID, Payload: datatypes.JSON(payload)}
	var existing Models.TravelDraft
	err = s.db.Where("draft_id = ?", record.RecordID).First(&existing).Error
	if err == nil {
		existing.Payload = draft.Payload
		existing.Submitted = false
		return s.db.Save(&existing).Error
	}
	return s.db.Create(&draft).Error
}

// Pending returns every draft not yet confirmed by the server, decoded back
// into records. Corrupt rows are skipped, not fatal.
func (s *DraftStore) Pending() ([]Models.TravelLogRecord, error) {
	var drafts []Models.TravelDraft
	if err := s.db.Where("submitted = ?", false).Order("created_at desc").Find(&drafts).Error; err != nil {
		return nil, fmt.Errorf("failed to load travel drafts: %w", err)
	}

	records := make([]Models.TravelLogRecord, 0, len(drafts))
	for _, draft := range drafts {
		var record Models.TravelLogRecord
		if err := json.Unmarshal(draft.Payload, &record); err != nil {
			log.Printf("Skipping corrupt travel draft %s: %v", draft.DraftID, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkSubmitted flags a draft as confirmed by the server.
func (s *DraftStore) MarkSubmitted(draftID string) error {
	return s.db.Model(&Models.TravelDraft{}).
		Where("draft_id = ?", draftID).
		Update("submitted", true).Error
}

// Purge drops every confirmed draft.
func (s *DraftStore) Purge() error {
	return s.db.Where("submitted = ?", true).Delete(&Models.TravelDraft{}).Error
}
