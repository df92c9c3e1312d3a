package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/rondas-api/internal/domain"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

type feedbackModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id"`
	RoundID   int64     `gorm:"column:round_id"`
	Date      string    `gorm:"column:date"`
	Type      string    `gorm:"column:type"`
	Text      string    `gorm:"column:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (feedbackModel) TableName() string {
	return "feedback"
}

func (m feedbackModel) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:        domain.FeedbackID(m.ID),
		UserID:    domain.UserID(m.UserID),
		RoundID:   domain.RoundID(m.RoundID),
		Date:      m.Date,
		Type:      domain.FeedbackType(m.Type),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func fromDomainFeedback(f domain.Feedback) feedbackModel {
	return feedbackModel{
		ID:        int64(f.ID),
		UserID:    int64(f.UserID),
		RoundID:   int64(f.RoundID),
		Date:      f.Date,
		Type:      string(f.Type),
		Text:      f.Text,
		CreatedAt: f.CreatedAt,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) (domain.Feedback, error) {
	model := fromDomainFeedback(feedback)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Feedback{}, fmt.Errorf("gorm feedback: inserir: %w", err)
	}
	return model.toDomain(), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	var model feedbackModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Feedback{}, domain.ErrNotFound
		}
		return domain.Feedback{}, fmt.Errorf("gorm feedback: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *FeedbackRepository) Update(ctx context.Context, id domain.FeedbackID, fields map[string]any) (domain.Feedback, error) {
	result := r.db.WithContext(ctx).Model(&feedbackModel{}).
		Where("id = ?", int64(id)).
		Updates(fields)
	if result.Error != nil {
		return domain.Feedback{}, fmt.Errorf("gorm feedback: atualizar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *FeedbackRepository) Delete(ctx context.Context, id domain.FeedbackID) (domain.Feedback, error) {
	feedback, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}

	if err := r.db.WithContext(ctx).Delete(&feedbackModel{}, int64(id)).Error; err != nil {
		return domain.Feedback{}, fmt.Errorf("gorm feedback: remover: %w", err)
	}
	return feedback, nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter domain.CreatedRange, page domain.Page) ([]domain.Feedback, error) {
	query := r.db.WithContext(ctx).Model(&feedbackModel{})

	if filter.From != nil && filter.To != nil {
		query = query.Where("created_at >= ? AND created_at < ?", *filter.From, *filter.To)
	}

	var models []feedbackModel
	if err := query.
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm feedback: listar: %w", err)
	}

	result := make([]domain.Feedback, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.FeedbackRepository = (*FeedbackRepository)(nil)
