package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

// ============================================================
// Shared helpers
// ============================================================

func stampCreated(a *models.Audit, actor domain.Actor) {
	a.CreatedByUserID = actorID(actor)
	a.UpdatedByUserID = actorID(actor)
	a.CreatedBy = actor.Email
}

func stampUpdated(a *models.Audit, actor domain.Actor) {
	a.UpdatedByUserID = actorID(actor)
}

// recordStatusFilter normalizes the status query of master data lists
func recordStatusFilter(p *pagination.Params) (*pagination.Params, error) {
	if p == nil {
		p = pagination.New(1, pagination.DefaultLimit)
	}
	if p.Status == "" || strings.EqualFold(p.Status, "all") {
		cp := *p
		cp.Status = ""
		return &cp, nil
	}
	st, ok := domain.ParseRecordStatus(p.Status)
	if !ok {
		return nil, domain.NewValidationError("status", "status must be Active or Inactive")
	}
	cp := *p
	cp.Status = string(st)
	return &cp, nil
}

func normalizePhone(field, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	formatted, err := validation.FormatPhoneNumber(phone, validation.DefaultRegion)
	if err != nil {
		return "", domain.NewValidationError(field, fmt.Sprintf("%s must be a valid phone number", field))
	}
	return formatted, nil
}

// ============================================================
// Parties
// ============================================================

// PartyService manages suppliers, customers and business parties
type PartyService struct {
	repo      repositories.PartyRepository
	publisher Publisher
	now       Clock
}

// NewPartyService creates a new party service
func NewPartyService(repo repositories.PartyRepository, publisher Publisher) *PartyService {
	return &PartyService{repo: repo, publisher: publisher, now: systemClock}
}

// PartyInput represents create/update party input
type PartyInput struct {
	PartyName     string `json:"party_name" validate:"required,max=200"`
	Nickname      string `json:"nickname" validate:"max=50"`
	Address       string `json:"address" validate:"max=1000"`
	City          string `json:"city" validate:"max=100"`
	State         string `json:"state" validate:"max=100"`
	ContactPerson string `json:"contact_person" validate:"max=150"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Email         string `json:"email" validate:"omitempty,simple_email,max=255"`
}

func (in *PartyInput) normalize() error {
	in.PartyName = strings.TrimSpace(in.PartyName)
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return err
	}
	phone, err := normalizePhone("phone", in.Phone)
	if err != nil {
		return err
	}
	in.Phone = phone
	return nil
}

func (in *PartyInput) apply(p *models.Party) {
	p.PartyName = in.PartyName
	p.Nickname = in.Nickname
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.ContactPerson = in.ContactPerson
	p.Phone = in.Phone
	p.Email = in.Email
}

// Create creates a party
func (s *PartyService) Create(ctx context.Context, input *PartyInput, actor domain.Actor) (*models.Party, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	party := &models.Party{Status: string(domain.StatusActive), UpdatedAt: nextUpdatedAt(time.Time{}, now)}
	input.apply(party)
	stampCreated(&party.Audit, actor)

	if err := s.repo.Create(ctx, party); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicParties, domain.ActionCreated, party.ID, actor, now)
	return party, nil
}

// Update replaces a party's details
func (s *PartyService) Update(ctx context.Context, id uint, input *PartyInput, actor domain.Actor) (*models.Party, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	party, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	input.apply(party)
	stampUpdated(&party.Audit, actor)
	party.UpdatedAt = nextUpdatedAt(party.UpdatedAt, now)

	if err := s.repo.Update(ctx, party); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicParties, domain.ActionUpdated, party.ID, actor, now)
	return party, nil
}

// ToggleStatus flips a party between Active and Inactive
func (s *PartyService) ToggleStatus(ctx context.Context, id uint, actor domain.Actor) (*models.Party, error) {
	party, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	party.Status = string(domain.RecordStatus(party.Status).Toggle())
	stampUpdated(&party.Audit, actor)
	party.UpdatedAt = nextUpdatedAt(party.UpdatedAt, now)

	if err := s.repo.Update(ctx, party); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicParties, domain.ActionStatusChanged, party.ID, actor, now)
	return party, nil
}

// Get returns one party
func (s *PartyService) Get(ctx context.Context, id uint) (*models.Party, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists parties
func (s *PartyService) List(ctx context.Context, params *pagination.Params) ([]*models.Party, int64, error) {
	p, err := recordStatusFilter(params)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, listFilter(p))
}

// ============================================================
// Materials
// ============================================================

// MaterialService manages material master data
type MaterialService struct {
	repo      repositories.MaterialRepository
	publisher Publisher
	now       Clock
}

// NewMaterialService creates a new material service
func NewMaterialService(repo repositories.MaterialRepository, publisher Publisher) *MaterialService {
	return &MaterialService{repo: repo, publisher: publisher, now: systemClock}
}

// MaterialInput represents create/update material input
type MaterialInput struct {
	MaterialName string           `json:"material_name" validate:"required,max=150"`
	Description  string           `json:"description" validate:"max=1000"`
	Category     string           `json:"category" validate:"max=100"`
	Unit         string           `json:"unit" validate:"max=30"`
	Rate         *decimal.Decimal `json:"rate"`
}

func (in *MaterialInput) normalize() error {
	in.MaterialName = strings.TrimSpace(in.MaterialName)
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Rate != nil && in.Rate.IsNegative() {
		return domain.NewValidationError("rate", "rate cannot be negative")
	}
	return nil
}

func (in *MaterialInput) apply(m *models.Material) {
	m.MaterialName = in.MaterialName
	m.Description = in.Description
	m.Category = in.Category
	m.Unit = in.Unit
	if in.Rate != nil {
		m.Rate = decimal.NewNullDecimal(*in.Rate)
	} else {
		m.Rate = decimal.NullDecimal{}
	}
}

func materialDuplicate(name string, err error) error {
	if errors.Is(err, domain.ErrDuplicateEntry) {
		return domain.NewConflictError("Material %s already exists", name)
	}
	return err
}

// Create creates a material. The name is unique.
func (s *MaterialService) Create(ctx context.Context, input *MaterialInput, actor domain.Actor) (*models.Material, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	material := &models.Material{Status: string(domain.StatusActive), UpdatedAt: nextUpdatedAt(time.Time{}, now)}
	input.apply(material)
	stampCreated(&material.Audit, actor)

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, materialDuplicate(input.MaterialName, err)
	}

	publish(ctx, s.publisher, domain.TopicMaterials, domain.ActionCreated, material.ID, actor, now)
	config.GetLogger().WithField("material", material.MaterialName).Info("✅ Material created")
	return material, nil
}

// Update replaces a material's details
func (s *MaterialService) Update(ctx context.Context, id uint, input *MaterialInput, actor domain.Actor) (*models.Material, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	material, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	input.apply(material)
	stampUpdated(&material.Audit, actor)
	material.UpdatedAt = nextUpdatedAt(material.UpdatedAt, now)

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, materialDuplicate(input.MaterialName, err)
	}

	publish(ctx, s.publisher, domain.TopicMaterials, domain.ActionUpdated, material.ID, actor, now)
	return material, nil
}

// ToggleStatus flips a material between Active and Inactive
func (s *MaterialService) ToggleStatus(ctx context.Context, id uint, actor domain.Actor) (*models.Material, error) {
	material, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	material.Status = string(domain.RecordStatus(material.Status).Toggle())
	stampUpdated(&material.Audit, actor)
	material.UpdatedAt = nextUpdatedAt(material.UpdatedAt, now)

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicMaterials, domain.ActionStatusChanged, material.ID, actor, now)
	return material, nil
}

// Get returns one material
func (s *MaterialService) Get(ctx context.Context, id uint) (*models.Material, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists materials
func (s *MaterialService) List(ctx context.Context, params *pagination.Params) ([]*models.Material, int64, error) {
	p, err := recordStatusFilter(params)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, listFilter(p))
}
