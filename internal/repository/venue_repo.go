package repository

import (
	"context"

	"gorm.io/gorm"

	"venuebooking/internal/domain"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(ctx context.Context, v *domain.Venue) error {
	m := venueModel{Name: v.Name, Location: v.Location, Capacity: v.Capacity, Active: v.Active}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*v = *toDomainVenue(m)
	return nil
}

// Exists reports whether an active venue with id exists.
func (r *VenueRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&venueModel{}).Where("id = ? AND active = ?", id, true).Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *VenueRepository) Name(ctx context.Context, id int64) (string, error) {
	var m venueModel
	if err := r.db.WithContext(ctx).Select("id", "name").First(&m, id).Error; err != nil {
		return "", translate(err)
	}
	return m.Name, nil
}

func (r *VenueRepository) List(ctx context.Context) ([]domain.Venue, error) {
	var rows []venueModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Venue, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomainVenue(row))
	}
	return out, nil
}
