package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/validation"

	"gorm.io/datatypes"
)

const nicknameTakenMessage = "This nickname is already taken"

// BaseCompanyService manages base companies
type BaseCompanyService struct {
	repo      repositories.BaseCompanyRepository
	locker    Locker
	publisher Publisher
	now       Clock
}

// NewBaseCompanyService creates a new base company service
func NewBaseCompanyService(repo repositories.BaseCompanyRepository, locker Locker, publisher Publisher) *BaseCompanyService {
	return &BaseCompanyService{repo: repo, locker: locker, publisher: publisher, now: systemClock}
}

// BaseCompanyInput represents create/update base company input
type BaseCompanyInput struct {
	BaseCompanyName string   `json:"base_company_name" validate:"required,max=200"`
	Nickname        string   `json:"nickname" validate:"required"`
	GSTNumber       string   `json:"gst_number" validate:"max=20"`
	Address         string   `json:"address" validate:"max=1000"`
	ContactPerson   string   `json:"contact_person" validate:"max=150"`
	Phones          []string `json:"phones"`
	Emails          []string `json:"emails" validate:"dive,simple_email"`
}

// NicknameCheck is the live availability answer for the entry form
type NicknameCheck struct {
	Nickname  string `json:"nickname"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// nicknameFormat returns the format problem with a nickname, or ""
func nicknameFormat(nickname string) string {
	switch {
	case len(nickname) < 2:
		return "Nickname must be at least 2 characters"
	case len(nickname) > 20:
		return "Nickname must be 20 characters or less"
	case !validation.ValidNickname(nickname):
		return "Only letters, numbers, hyphens, and underscores allowed"
	}
	return ""
}

func (in *BaseCompanyInput) normalize() error {
	in.BaseCompanyName = strings.TrimSpace(in.BaseCompanyName)
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)

	emails := make([]string, 0, len(in.Emails))
	for _, e := range in.Emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	in.Emails = emails

	if err := validation.Struct(in); err != nil {
		return err
	}
	if msg := nicknameFormat(in.Nickname); msg != "" {
		return domain.NewValidationError("nickname", msg)
	}

	phones := make([]string, 0, len(in.Phones))
	for _, p := range in.Phones {
		if strings.TrimSpace(p) == "" {
			continue
		}
		formatted, err := normalizePhone("phones", p)
		if err != nil {
			return err
		}
		phones = append(phones, formatted)
	}
	in.Phones = phones
	return nil
}

func (in *BaseCompanyInput) apply(c *models.BaseCompany) {
	c.BaseCompanyName = in.BaseCompanyName
	c.Nickname = in.Nickname
	c.GSTNumber = in.GSTNumber
	c.Address = in.Address
	c.ContactPerson = in.ContactPerson
	c.Phones = datatypes.JSONSlice[string](in.Phones)
	c.Emails = datatypes.JSONSlice[string](in.Emails)
}

func nicknameTaken(err error) error {
	if errors.Is(err, domain.ErrDuplicateEntry) {
		return domain.NewConflictError(nicknameTakenMessage)
	}
	return err
}

func nicknameLockKey(nickname string) string {
	return "base-company:nickname:" + strings.ToLower(nickname)
}

// CheckNickname reports whether a nickname is well formed and free.
// excludeID skips the company being edited.
func (s *BaseCompanyService) CheckNickname(ctx context.Context, nickname string, excludeID uint) (*NicknameCheck, error) {
	nickname = strings.TrimSpace(nickname)
	res := &NicknameCheck{Nickname: nickname}

	if msg := nicknameFormat(nickname); msg != "" {
		res.Message = msg
		return res, nil
	}
	res.Valid = true

	exists, err := s.repo.NicknameExists(ctx, nickname, excludeID)
	if err != nil {
		return nil, err
	}
	if exists {
		res.Message = nicknameTakenMessage
		return res, nil
	}

	res.Available = true
	res.Message = "Nickname is available!"
	return res, nil
}

// Create creates a base company. The nickname check and insert run under a
// lock; the unique index still has the last word.
func (s *BaseCompanyService) Create(ctx context.Context, input *BaseCompanyInput, actor domain.Actor) (*models.BaseCompany, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	company := &models.BaseCompany{Status: string(domain.StatusActive), UpdatedAt: nextUpdatedAt(time.Time{}, now)}
	input.apply(company)
	stampCreated(&company.Audit, actor)

	err := withLock(ctx, s.locker, nicknameLockKey(input.Nickname), func() error {
		exists, err := s.repo.NicknameExists(ctx, input.Nickname, 0)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError(nicknameTakenMessage)
		}
		return nicknameTaken(s.repo.Create(ctx, company))
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicBaseCompanies, domain.ActionCreated, company.ID, actor, now)
	config.GetLogger().WithField("nickname", company.Nickname).Info("✅ Base company created")
	return company, nil
}

// Update replaces a base company's details
func (s *BaseCompanyService) Update(ctx context.Context, id uint, input *BaseCompanyInput, actor domain.Actor) (*models.BaseCompany, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	var company *models.BaseCompany
	now := s.now()
	err := withLock(ctx, s.locker, nicknameLockKey(input.Nickname), func() error {
		var err error
		company, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		exists, err := s.repo.NicknameExists(ctx, input.Nickname, id)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError(nicknameTakenMessage)
		}

		input.apply(company)
		stampUpdated(&company.Audit, actor)
		company.UpdatedAt = nextUpdatedAt(company.UpdatedAt, now)
		return nicknameTaken(s.repo.Update(ctx, company))
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicBaseCompanies, domain.ActionUpdated, company.ID, actor, now)
	return company, nil
}

// ToggleStatus flips a base company between Active and Inactive
func (s *BaseCompanyService) ToggleStatus(ctx context.Context, id uint, actor domain.Actor) (*models.BaseCompany, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	company.Status = string(domain.RecordStatus(company.Status).Toggle())
	stampUpdated(&company.Audit, actor)
	company.UpdatedAt = nextUpdatedAt(company.UpdatedAt, now)

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicBaseCompanies, domain.ActionStatusChanged, company.ID, actor, now)
	return company, nil
}

// Get returns one base company
func (s *BaseCompanyService) Get(ctx context.Context, id uint) (*models.BaseCompany, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists base companies
func (s *BaseCompanyService) List(ctx context.Context, params *pagination.Params) ([]*models.BaseCompany, int64, error) {
	p, err := recordStatusFilter(params)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, listFilter(p))
}
