package services

import (
	"context"
	"encoding/json"
	"strings"

	"braindump_backend/internal/logger"
	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/services/dto"
	"braindump_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Broadcaster pushes realtime events to every connected client of a user.
// Implemented by the ws hub; a no-op or fake in tests.
type Broadcaster interface {
	SendToUser(userID string, message any)
}

// Realtime event types delivered over the websocket channel.
const (
	EventDumpCreated = "dump.created"
	EventDumpUpdated = "dump.updated"
	EventDumpDeleted = "dump.deleted"
)

// DumpEvent is the realtime fan-out payload. Clients deduplicate created
// events against their own optimistic copies by dump id.
type DumpEvent struct {
	Type string            `json:"type"`
	Dump *models.BrainDump `json:"dump,omitempty"`
	ID   string            `json:"id,omitempty"`
}

type DumpService interface {
	// Create runs the full capture flow: quota check, categorization
	// fan-out, batch insert, one quota increment per batch, realtime
	// broadcast per row.
	Create(ctx context.Context, userID, text string) (*dto.CreateDumpResponse, error)
	List(userID string) (*dto.ListDumpsResponse, error)
	ToggleComplete(userID, dumpID string, completed bool) (*models.BrainDump, error)
	UpdateText(userID, dumpID, text string) (*models.BrainDump, error)
	Delete(userID, dumpID string) error
}

type DumpServiceImpl struct {
	dumpRepo    repositories.DumpRepository
	quota       QuotaService
	categorizer CategorizeService
	broadcaster Broadcaster
}

func NewDumpService(
	dumpRepo repositories.DumpRepository,
	quota QuotaService,
	categorizer CategorizeService,
	broadcaster Broadcaster,
) DumpService {
	return &DumpServiceImpl{
		dumpRepo:    dumpRepo,
		quota:       quota,
		categorizer: categorizer,
		broadcaster: broadcaster,
	}
}

func (s *DumpServiceImpl) Create(ctx context.Context, userID, text string) (*dto.CreateDumpResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Text must not be empty")
	}

	status, err := s.quota.CheckLimit(userID)
	if err != nil {
		return nil, err
	}
	if !status.CanDump {
		return nil, apperrors.ErrDailyLimitReached
	}

	// Categorization is guaranteed non-empty; a classifier failure has
	// already degraded to the fallback item inside the gateway.
	items := s.categorizer.Process(ctx, text)

	dumps := make([]*models.BrainDump, 0, len(items))
	for _, item := range items {
		raw, _ := json.Marshal(item)
		dumps = append(dumps, &models.BrainDump{
			UserID:   userID,
			Text:     item.RefinedText,
			Category: item.Category,
			Priority: item.Priority,
			Tags:     pq.StringArray(item.Tags),
			Details:  datatypes.JSON(raw),
		})
	}

	if err := s.dumpRepo.CreateBatch(dumps); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// One increment per accepted batch, not per fanned-out item. Not
	// atomic with the insert: a crash in between under-counts usage,
	// which is acceptable for an advisory quota.
	if err := s.quota.IncrementDump(userID); err != nil {
		logger.CtxWithError(ctx, "failed to increment dump counter", err)
	}

	response := &dto.CreateDumpResponse{
		Items: items,
		Dumps: make([]models.BrainDump, 0, len(dumps)),
	}
	for _, dump := range dumps {
		response.Dumps = append(response.Dumps, *dump)
		s.broadcaster.SendToUser(userID, DumpEvent{Type: EventDumpCreated, Dump: dump})
	}

	logger.CtxInfo(ctx, "dumps created", "count", len(dumps))

	return response, nil
}

func (s *DumpServiceImpl) List(userID string) (*dto.ListDumpsResponse, error) {
	dumps, err := s.dumpRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ListDumpsResponse{
		Dumps: dumps,
		Total: len(dumps),
	}, nil
}

func (s *DumpServiceImpl) ToggleComplete(userID, dumpID string, completed bool) (*models.BrainDump, error) {
	dump, err := s.dumpRepo.UpdateCompleted(userID, dumpID, completed)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDumpNotFound) {
			return nil, apperrors.ErrDumpNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	s.broadcaster.SendToUser(userID, DumpEvent{Type: EventDumpUpdated, Dump: dump})
	return dump, nil
}

func (s *DumpServiceImpl) UpdateText(userID, dumpID, text string) (*models.BrainDump, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Text must not be empty")
	}

	dump, err := s.dumpRepo.UpdateText(userID, dumpID, text)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDumpNotFound) {
			return nil, apperrors.ErrDumpNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	s.broadcaster.SendToUser(userID, DumpEvent{Type: EventDumpUpdated, Dump: dump})
	return dump, nil
}

func (s *DumpServiceImpl) Delete(userID, dumpID string) error {
	if err := s.dumpRepo.Delete(userID, dumpID); err != nil {
		if apperrors.Is(err, repositories.ErrDumpNotFound) {
			return apperrors.ErrDumpNotFound
		}
		return apperrors.InternalError(err)
	}

	s.broadcaster.SendToUser(userID, DumpEvent{Type: EventDumpDeleted, ID: dumpID})
	return nil
}
