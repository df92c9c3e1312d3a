package domain

import (
	"time"
)

type (
	UserID     int64
	RoundID    int64
	IssueID    int64
	FeedbackID int64
)

// Status cobre tanto o estado da ronda quanto o valor de cada folha do checklist.
type Status string

const (
	StatusOK          Status = "ok"
	StatusPendente    Status = "pendente"
	StatusEmProgresso Status = "em progresso"
	StatusNaoFeito    Status = "não feito"
)

func (s Status) Valido() bool {
	switch s {
	case StatusOK, StatusPendente, StatusEmProgresso, StatusNaoFeito:
		return true
	}
	return false
}

type Role string

const (
	RoleOperator   Role = "operator"
	RoleSupervisor Role = "supervisor"
)

type Category string

const (
	CategoryTecnico     Category = "técnico"
	CategoryAtendimento Category = "atendimento"
	CategoryLimpeza     Category = "limpeza"
	CategoryBuffet      Category = "buffet"
	CategoryOutro       Category = "outro"
)

func (c Category) Valida() bool {
	switch c {
	case CategoryTecnico, CategoryAtendimento, CategoryLimpeza, CategoryBuffet, CategoryOutro:
		return true
	}
	return false
}

type Severity string

const (
	SeverityBaixa   Severity = "baixa"
	SeverityMedia   Severity = "media"
	SeverityAlta    Severity = "alta"
	SeverityUrgente Severity = "urgente"
)

func (s Severity) Valida() bool {
	switch s {
	case SeverityBaixa, SeverityMedia, SeverityAlta, SeverityUrgente:
		return true
	}
	return false
}

type FeedbackType string

const (
	FeedbackReclamacao FeedbackType = "reclamação"
	FeedbackElogio     FeedbackType = "elogio"
)

func (t FeedbackType) Valido() bool {
	return t == FeedbackReclamacao || t == FeedbackElogio
}

type User struct {
	ID           UserID    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Email        string    `gorm:"column:email;type:varchar(200);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(200);not null" json:"-"`
	Role         Role      `gorm:"column:role;type:varchar(40);not null;default:operator" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Round é uma passagem de inspeção: identificada pelo dia e pelo índice dentro do dia,
// com o checklist embutido como documento JSON.
type Round struct {
	ID         RoundID    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date       string     `gorm:"column:date;type:varchar(10);not null;index:idx_rounds_date_index,priority:1" json:"date"`
	Index      int        `gorm:"column:index;not null;index:idx_rounds_date_index,priority:2" json:"index"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	StartedAt  *time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at"`
	Duration   *int64     `gorm:"column:duration" json:"duration"`
	UserID     UserID     `gorm:"column:user_id;not null;index" json:"user_id"`
	Status     Status     `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Checklist  Checklist  `gorm:"column:checklist;type:jsonb;not null" json:"checklist"`
	Notes      *string    `gorm:"column:notes;type:text" json:"notes"`
}

type Issue struct {
	ID          IssueID   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RoundID     RoundID   `gorm:"column:round_id;not null;index" json:"round_id"`
	Category    Category  `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Severity    Severity  `gorm:"column:severity;type:varchar(20);not null;default:baixa" json:"severity"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

type Feedback struct {
	ID        FeedbackID   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    UserID       `gorm:"column:user_id;not null;index" json:"user_id"`
	RoundID   RoundID      `gorm:"column:round_id;not null;index" json:"round_id"`
	Date      string       `gorm:"column:date;type:varchar(10);not null" json:"date"`
	Type      FeedbackType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Text      string       `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (User) TableName() string { return "users" }

func (Round) TableName() string { return "rounds" }

func (Issue) TableName() string { return "issues" }

func (Feedback) TableName() string { return "feedback" }
