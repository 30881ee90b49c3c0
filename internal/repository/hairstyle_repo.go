package repository

import (
	"context"
	"strings"

	"barberbook/internal/domain"
	"barberbook/internal/pkg/utils"

	"gorm.io/gorm"
)

type HairstyleRepository struct {
	db *gorm.DB
}

func NewHairstyleRepository(db *gorm.DB) *HairstyleRepository {
	return &HairstyleRepository{db: db}
}

// List returns the hairstyle catalogue. A non-empty tag keeps only entries
// carrying that tag.
func (r *HairstyleRepository) List(ctx context.Context, tag string) ([]domain.Hairstyle, error) {
	q := r.db.WithContext(ctx).Order("nombre ASC")
	tag = strings.TrimSpace(tag)
	if tag != "" {
		q = q.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(tag)+"%")
	}

	var styles []domain.Hairstyle
	if err := q.Find(&styles).Error; err != nil {
		return nil, err
	}

	// LIKE also matches substrings of longer tags.
	out := styles[:0]
	for _, s := range styles {
		if tag != "" && !utils.HasTag(s.Tags, tag) {
			continue
		}
		s.TagList = utils.StringToTags(s.Tags)
		out = append(out, s)
	}
	return out, nil
}

// Create stores TagList when set, otherwise the raw Tags column.
func (r *HairstyleRepository) Create(ctx context.Context, h *domain.Hairstyle) error {
	if len(h.TagList) > 0 {
		h.Tags = utils.TagsToString(h.TagList)
	}
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return err
	}
	h.TagList = utils.StringToTags(h.Tags)
	return nil
}
