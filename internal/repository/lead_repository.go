package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/owner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// updatableColumns are the lead columns an update may write. id, user_id and
// created_at are never listed.
var updatableColumns = []string{
	"first_name", "last_name", "email", "phone", "company", "city", "state",
	"source", "status", "score", "lead_value", "last_activity_at", "is_qualified",
}

// LeadRepository stores leads in Postgres. Every query it issues carries the
// owner scope; there is no unscoped accessor.
type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) scoped(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Lead{}).Scopes(owner.Scope(ownerID))
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return translateError(err, "create lead")
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.scoped(ctx, ownerID).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, translateError(err, "find lead")
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, ownerID uuid.UUID, lead *models.Lead) error {
	res := r.db.WithContext(ctx).Model(lead).
		Scopes(owner.Scope(ownerID)).
		Select(updatableColumns).
		Updates(lead)
	if res.Error != nil {
		return translateError(res.Error, "update lead")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(owner.Scope(ownerID)).
		Where("id = ?", id).
		Delete(&models.Lead{})
	if res.Error != nil {
		return translateError(res.Error, "delete lead")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the owner's leads matching filter, newest first,
// together with the number of matches before pagination.
func (r *LeadRepository) List(ctx context.Context, ownerID uuid.UUID, filter models.LeadFilter, offset, limit int) ([]models.Lead, int64, error) {
	var total int64
	if err := r.scoped(ctx, ownerID).Scopes(FilterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	leads := make([]models.Lead, 0, limit)
	if total == 0 {
		return leads, 0, nil
	}

	err := r.scoped(ctx, ownerID).Scopes(FilterScope(filter)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	return leads, total, nil
}

// FilterScope turns the optional list predicates into WHERE clauses.
func FilterScope(f models.LeadFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Email != "" {
			db = db.Where("email ILIKE ?", containsPattern(f.Email))
		}
		if f.Company != "" {
			db = db.Where("company ILIKE ?", containsPattern(f.Company))
		}
		if f.City != "" {
			db = db.Where("city ILIKE ?", containsPattern(f.City))
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Source != "" {
			db = db.Where("source = ?", f.Source)
		}
		if f.IsQualified != nil {
			db = db.Where("is_qualified = ?", *f.IsQualified)
		}
		if f.ScoreMin != nil {
			db = db.Where("score >= ?", *f.ScoreMin)
		}
		if f.ScoreMax != nil {
			db = db.Where("score <= ?", *f.ScoreMax)
		}
		if f.LeadValueMin != nil {
			db = db.Where("lead_value >= ?", *f.LeadValueMin)
		}
		if f.LeadValueMax != nil {
			db = db.Where("lead_value <= ?", *f.LeadValueMax)
		}
		if f.CreatedAfter != nil {
			db = db.Where("created_at >= ?", *f.CreatedAfter)
		}
		if f.CreatedBefore != nil {
			db = db.Where("created_at <= ?", *f.CreatedBefore)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func translateError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrDuplicateEmail
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
