package repositories

import (
	"errors"
	"time"

	"braindump_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDumpNotFound = errors.New("dump not found")

// DumpRepository scopes every read and write by the owning user. Ownership
// isolation lives here, not in the database.
type DumpRepository interface {
	CreateBatch(dumps []*models.BrainDump) error
	ListByUser(userID string) ([]models.BrainDump, error)
	FindByID(userID, dumpID string) (*models.BrainDump, error)
	UpdateCompleted(userID, dumpID string, completed bool) (*models.BrainDump, error)
	UpdateText(userID, dumpID, text string) (*models.BrainDump, error)
	Delete(userID, dumpID string) error
}

type DumpRepositoryImpl struct {
	db *gorm.DB
}

func NewDumpRepository(db *gorm.DB) DumpRepository {
	return &DumpRepositoryImpl{db: db}
}

func (r *DumpRepositoryImpl) CreateBatch(dumps []*models.BrainDump) error {
	if len(dumps) == 0 {
		return nil
	}
	return r.db.Create(dumps).Error
}

func (r *DumpRepositoryImpl) ListByUser(userID string) ([]models.BrainDump, error) {
	var dumps []models.BrainDump
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dumps).Error
	return dumps, err
}

func (r *DumpRepositoryImpl) FindByID(userID, dumpID string) (*models.BrainDump, error) {
	var dump models.BrainDump
	err := r.db.First(&dump, "id = ? AND user_id = ?", dumpID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDumpNotFound
		}
		return nil, err
	}
	return &dump, nil
}

func (r *DumpRepositoryImpl) UpdateCompleted(userID, dumpID string, completed bool) (*models.BrainDump, error) {
	result := r.db.Model(&models.BrainDump{}).
		Where("id = ? AND user_id = ?", dumpID, userID).
		Updates(map[string]interface{}{
			"completed":  completed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrDumpNotFound
	}
	return r.FindByID(userID, dumpID)
}

func (r *DumpRepositoryImpl) UpdateText(userID, dumpID, text string) (*models.BrainDump, error) {
	result := r.db.Model(&models.BrainDump{}).
		Where("id = ? AND user_id = ?", dumpID, userID).
		Updates(map[string]interface{}{
			"text":       text,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrDumpNotFound
	}
	return r.FindByID(userID, dumpID)
}

func (r *DumpRepositoryImpl) Delete(userID, dumpID string) error {
	result := r.db.Where("id = ? AND user_id = ?", dumpID, userID).Delete(&models.BrainDump{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDumpNotFound
	}
	return nil
}
