package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/rondas-api/internal/domain"
)

// RoundRepository mapeia rondas para a tabela GORM, devolvendo sempre a linha afetada.
type RoundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

type roundModel struct {
	ID         int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Date       string           `gorm:"column:date"`
	Index      int              `gorm:"column:index"`
	CreatedAt  time.Time        `gorm:"column:created_at"`
	StartedAt  *time.Time       `gorm:"column:started_at"`
	FinishedAt *time.Time       `gorm:"column:finished_at"`
	Duration   *int64           `gorm:"column:duration"`
	UserID     int64            `gorm:"column:user_id"`
	Status     string           `gorm:"column:status"`
	Checklist  domain.Checklist `gorm:"column:checklist;type:jsonb"`
	Notes      *string          `gorm:"column:notes"`
}

func (roundModel) TableName() string {
	return "rounds"
}

func (m roundModel) toDomain() domain.Round {
	return domain.Round{
		ID:         domain.RoundID(m.ID),
		Date:       m.Date,
		Index:      m.Index,
		CreatedAt:  m.CreatedAt,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Duration:   m.Duration,
		UserID:     domain.UserID(m.UserID),
		Status:     domain.Status(m.Status),
		Checklist:  m.Checklist,
		Notes:      m.Notes,
	}
}

func fromDomainRound(r domain.Round) roundModel {
	return roundModel{
		ID:         int64(r.ID),
		Date:       r.Date,
		Index:      r.Index,
		CreatedAt:  r.CreatedAt,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Duration:   r.Duration,
		UserID:     int64(r.UserID),
		Status:     string(r.Status),
		Checklist:  r.Checklist,
		Notes:      r.Notes,
	}
}

func (r *RoundRepository) Create(ctx context.Context, round domain.Round) (domain.Round, error) {
	model := fromDomainRound(round)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Round{}, fmt.Errorf("gorm rounds: inserir: %w", err)
	}
	return model.toDomain(), nil
}

func (r *RoundRepository) FindByID(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	var model roundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Round{}, domain.ErrNotFound
		}
		return domain.Round{}, fmt.Errorf("gorm rounds: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *RoundRepository) Update(ctx context.Context, id domain.RoundID, fields map[string]any) (domain.Round, error) {
	result := r.db.WithContext(ctx).Model(&roundModel{}).
		Where("id = ?", int64(id)).
		Updates(fields)
	if result.Error != nil {
		return domain.Round{}, fmt.Errorf("gorm rounds: atualizar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Round{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *RoundRepository) Delete(ctx context.Context, id domain.RoundID) (domain.Round, error) {
	// Busca antes de remover para devolver o snapshot da linha apagada.
	round, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Round{}, err
	}

	if err := r.db.WithContext(ctx).Delete(&roundModel{}, int64(id)).Error; err != nil {
		return domain.Round{}, fmt.Errorf("gorm rounds: remover: %w", err)
	}
	return round, nil
}

func (r *RoundRepository) List(ctx context.Context, filter domain.DateFilter, page domain.Page) ([]domain.Round, error) {
	query := r.db.WithContext(ctx).Model(&roundModel{})

	switch {
	case filter.Day != "":
		query = query.Where("date = ?", filter.Day)
	case filter.Start != "" && filter.End != "":
		query = query.Where("date BETWEEN ? AND ?", filter.Start, filter.End)
	}

	var models []roundModel
	if err := query.
		Order(`date ASC, "index" ASC`).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm rounds: listar: %w", err)
	}

	result := make([]domain.Round, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.RoundRepository = (*RoundRepository)(nil)
