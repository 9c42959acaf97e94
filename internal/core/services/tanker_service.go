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

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TankerService manages transporters and their tankers
type TankerService struct {
	repo      repositories.TankerRepository
	locker    Locker
	publisher Publisher
	now       Clock
}

// NewTankerService creates a new tanker service
func NewTankerService(repo repositories.TankerRepository, locker Locker, publisher Publisher) *TankerService {
	return &TankerService{repo: repo, locker: locker, publisher: publisher, now: systemClock}
}

// TankerInput represents create/update tanker input
type TankerInput struct {
	TransporterName string           `json:"transporter_name" validate:"required,max=200"`
	TankerNumber    string           `json:"tanker_number" validate:"required,max=30"`
	Capacity        *decimal.Decimal `json:"capacity"`
}

// ListTankersInput represents list tankers input
type ListTankersInput struct {
	*pagination.Params
	Transporter string
}

func (in *TankerInput) normalize() error {
	in.TransporterName = strings.TrimSpace(in.TransporterName)
	in.TankerNumber = strings.ToUpper(strings.TrimSpace(in.TankerNumber))
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Capacity != nil && !in.Capacity.IsPositive() {
		return domain.NewValidationError("capacity", "capacity must be greater than zero")
	}
	return nil
}

func (in *TankerInput) apply(t *models.Tanker) {
	t.TransporterName = in.TransporterName
	t.TankerNumber = in.TankerNumber
	if in.Capacity != nil {
		t.Capacity = decimal.NewNullDecimal(*in.Capacity)
	} else {
		t.Capacity = decimal.NullDecimal{}
	}
}

func tankerDuplicate(in *TankerInput) error {
	return domain.NewConflictError("Tanker %s already exists for %s", in.TankerNumber, in.TransporterName)
}

func tankerLockKey(in *TankerInput) string {
	return "tanker:" + strings.ToLower(in.TransporterName) + ":" + in.TankerNumber
}

// Create registers a tanker. A tanker number is unique per transporter.
func (s *TankerService) Create(ctx context.Context, input *TankerInput, actor domain.Actor) (*models.Tanker, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	tanker := &models.Tanker{Status: string(domain.StatusActive), UpdatedAt: nextUpdatedAt(time.Time{}, now)}
	input.apply(tanker)
	stampCreated(&tanker.Audit, actor)

	err := withLock(ctx, s.locker, tankerLockKey(input), func() error {
		exists, err := s.repo.Exists(ctx, input.TransporterName, input.TankerNumber, 0)
		if err != nil {
			return err
		}
		if exists {
			return tankerDuplicate(input)
		}
		if err := s.repo.Create(ctx, tanker); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				return tankerDuplicate(input)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicTankers, domain.ActionCreated, tanker.ID, actor, now)
	config.GetLogger().WithFields(logrus.Fields{
		"transporter": tanker.TransporterName,
		"tanker":      tanker.TankerNumber,
	}).Info("✅ Tanker registered")
	return tanker, nil
}

// Update replaces a tanker's details
func (s *TankerService) Update(ctx context.Context, id uint, input *TankerInput, actor domain.Actor) (*models.Tanker, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	var tanker *models.Tanker
	now := s.now()
	err := withLock(ctx, s.locker, tankerLockKey(input), func() error {
		var err error
		tanker, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		exists, err := s.repo.Exists(ctx, input.TransporterName, input.TankerNumber, id)
		if err != nil {
			return err
		}
		if exists {
			return tankerDuplicate(input)
		}

		input.apply(tanker)
		stampUpdated(&tanker.Audit, actor)
		tanker.UpdatedAt = nextUpdatedAt(tanker.UpdatedAt, now)
		if err := s.repo.Update(ctx, tanker); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				return tankerDuplicate(input)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicTankers, domain.ActionUpdated, tanker.ID, actor, now)
	return tanker, nil
}

// ToggleStatus flips a tanker between Active and Inactive
func (s *TankerService) ToggleStatus(ctx context.Context, id uint, actor domain.Actor) (*models.Tanker, error) {
	tanker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tanker.Status = string(domain.RecordStatus(tanker.Status).Toggle())
	stampUpdated(&tanker.Audit, actor)
	tanker.UpdatedAt = nextUpdatedAt(tanker.UpdatedAt, now)

	if err := s.repo.Update(ctx, tanker); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicTankers, domain.ActionStatusChanged, tanker.ID, actor, now)
	return tanker, nil
}

// Get returns one tanker
func (s *TankerService) Get(ctx context.Context, id uint) (*models.Tanker, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists tankers, optionally for one transporter
func (s *TankerService) List(ctx context.Context, input *ListTankersInput) ([]*models.Tanker, int64, error) {
	p, err := recordStatusFilter(input.Params)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repositories.TankerFilter{
		ListFilter:  listFilter(p),
		Transporter: strings.TrimSpace(input.Transporter),
	})
}

// Transporters lists known transporter names for the suggestion box
func (s *TankerService) Transporters(ctx context.Context, query string) ([]string, error) {
	names, err := s.repo.Transporters(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
