package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"stafflow.com/stafflow/model"
)

// AnnouncementService handles the dashboard notice board. Publishing also
// broadcasts through the notifier when one is configured.
type AnnouncementService struct {
	db       *Database
	notifier Notifier
}

func NewAnnouncementService(db *Database, notifier Notifier) *AnnouncementService {
	return &AnnouncementService{db: db, notifier: notifier}
}

func (s *AnnouncementService) Create(ctx context.Context, title, body string, createdBy uint, expiresAt *time.Time) (*model.Announcement, error) {
	a := model.Announcement{
		Title:       title,
		Body:        body,
		CreatedByID: createdBy,
		ExpiresAt:   expiresAt,
	}
	if err := s.db.DB(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, a.Title, a.Body); err != nil {
			log.Printf("announcement broadcast failed: %v", err)
		}
	}
	return &a, nil
}

// ListActive returns announcements whose expiry is unset or in the future.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]model.Announcement, error) {
	var items []model.Announcement
	if err := s.db.DB(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	res := s.db.DB(ctx).Delete(&model.Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("announcement %d: %w", id, ErrNotFound)
	}
	return nil
}
