package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/rondas-api/internal/domain"
)

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

type issueModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RoundID     int64     `gorm:"column:round_id"`
	Category    string    `gorm:"column:category"`
	Severity    string    `gorm:"column:severity"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (issueModel) TableName() string {
	return "issues"
}

func (m issueModel) toDomain() domain.Issue {
	return domain.Issue{
		ID:          domain.IssueID(m.ID),
		RoundID:     domain.RoundID(m.RoundID),
		Category:    domain.Category(m.Category),
		Severity:    domain.Severity(m.Severity),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainIssue(i domain.Issue) issueModel {
	return issueModel{
		ID:          int64(i.ID),
		RoundID:     int64(i.RoundID),
		Category:    string(i.Category),
		Severity:    string(i.Severity),
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
	}
}

func (r *IssueRepository) Create(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	model := fromDomainIssue(issue)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Issue{}, fmt.Errorf("gorm issues: inserir: %w", err)
	}
	return model.toDomain(), nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	var model issueModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Issue{}, domain.ErrNotFound
		}
		return domain.Issue{}, fmt.Errorf("gorm issues: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *IssueRepository) Update(ctx context.Context, id domain.IssueID, fields map[string]any) (domain.Issue, error) {
	result := r.db.WithContext(ctx).Model(&issueModel{}).
		Where("id = ?", int64(id)).
		Updates(fields)
	if result.Error != nil {
		return domain.Issue{}, fmt.Errorf("gorm issues: atualizar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Issue{}, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *IssueRepository) Delete(ctx context.Context, id domain.IssueID) (domain.Issue, error) {
	issue, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Issue{}, err
	}

	if err := r.db.WithContext(ctx).Delete(&issueModel{}, int64(id)).Error; err != nil {
		return domain.Issue{}, fmt.Errorf("gorm issues: remover: %w", err)
	}
	return issue, nil
}

func (r *IssueRepository) List(ctx context.Context, filter domain.CreatedRange, page domain.Page) ([]domain.Issue, error) {
	query := r.db.WithContext(ctx).Model(&issueModel{})

	if filter.From != nil && filter.To != nil {
		// Intervalo meio-aberto acompanha a expansão de dia feita no serviço.
		query = query.Where("created_at >= ? AND created_at < ?", *filter.From, *filter.To)
	}

	var models []issueModel
	if err := query.
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm issues: listar: %w", err)
	}

	result := make([]domain.Issue, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.IssueRepository = (*IssueRepository)(nil)
