package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidLeadID = errors.New("invalid lead id")
)

// LeadStore persists leads. Implementations must restrict every read and
// write to the given owner.
type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error)
	Update(ctx context.Context, ownerID uuid.UUID, lead *models.Lead) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, filter models.LeadFilter, offset, limit int) ([]models.Lead, int64, error)
}

type LeadService struct {
	store LeadStore
}

func NewLeadService(store LeadStore) *LeadService {
	return &LeadService{store: store}
}

// ParseLeadID parses a path id, reporting ErrInvalidLeadID for anything that is not a UUID.
func ParseLeadID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidLeadID
	}
	return id, nil
}

func (s *LeadService) ListLeads(ctx context.Context, ownerID uuid.UUID, q ListQuery) (*dto.LeadListResponse, error) {
	leads, total, err := s.store.List(ctx, ownerID, q.Filter, q.Offset(), q.Limit)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	return &dto.LeadListResponse{
		Data:       leads,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

func (s *LeadService) GetLead(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return lead, nil
}

func (s *LeadService) CreateLead(ctx context.Context, ownerID uuid.UUID, req dto.CreateLeadRequest) (*models.Lead, error) {
	lead := &models.Lead{
		ID:             uuid.New(),
		UserID:         ownerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		City:           req.City,
		State:          req.State,
		Source:         req.Source,
		Status:         req.Status,
		Score:          req.Score,
		LeadValue:      req.LeadValue,
		LastActivityAt: req.LastActivityAt,
		IsQualified:    req.IsQualified,
	}
	lead.Normalize()
	lead.ApplyDefaults()
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateLead merges the supplied fields into the stored lead and validates the
// result as a whole before writing it back.
func (s *LeadService) UpdateLead(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateLeadRequest) (*models.Lead, error) {
	lead, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, notFound(err)
	}

	applyPatch(lead, req)
	lead.Normalize()
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, ownerID, lead); err != nil {
		return nil, notFound(err)
	}
	return lead, nil
}

func (s *LeadService) DeleteLead(ctx context.Context, ownerID, id uuid.UUID) error {
	return notFound(s.store.Delete(ctx, ownerID, id))
}

func applyPatch(lead *models.Lead, req dto.UpdateLeadRequest) {
	setIf(&lead.FirstName, req.FirstName)
	setIf(&lead.LastName, req.LastName)
	setIf(&lead.Email, req.Email)
	setIf(&lead.Phone, req.Phone)
	setIf(&lead.Company, req.Company)
	setIf(&lead.City, req.City)
	setIf(&lead.State, req.State)
	setIf(&lead.Source, req.Source)
	setIf(&lead.Status, req.Status)
	setIf(&lead.Score, req.Score)
	setIf(&lead.LeadValue, req.LeadValue)
	setIf(&lead.IsQualified, req.IsQualified)
	if req.LastActivityAt != nil {
		t := *req.LastActivityAt
		lead.LastActivityAt = &t
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}
