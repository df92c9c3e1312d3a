package domain

import (
	"context"
	"time"
)

// Page traduz a paginação 1-based da API para limit/offset do banco.
type Page struct {
	Limit  int
	Offset int
}

// DateFilter filtra a coluna de calendário das rondas: dia exato ou intervalo fechado.
// Campos vazios significam ausência de filtro.
type DateFilter struct {
	Day   string
	Start string
	End   string
}

// CreatedRange filtra created_at como intervalo meio-aberto [From, To).
type CreatedRange struct {
	From *time.Time
	To   *time.Time
}

type RoundRepository interface {
	Create(ctx context.Context, r Round) (Round, error)
	FindByID(ctx context.Context, id RoundID) (Round, error)
	Update(ctx context.Context, id RoundID, fields map[string]any) (Round, error)
	Delete(ctx context.Context, id RoundID) (Round, error)
	List(ctx context.Context, filter DateFilter, page Page) ([]Round, error)
}

type IssueRepository interface {
	Create(ctx context.Context, i Issue) (Issue, error)
	FindByID(ctx context.Context, id IssueID) (Issue, error)
	Update(ctx context.Context, id IssueID, fields map[string]any) (Issue, error)
	Delete(ctx context.Context, id IssueID) (Issue, error)
	List(ctx context.Context, filter CreatedRange, page Page) ([]Issue, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, f Feedback) (Feedback, error)
	FindByID(ctx context.Context, id FeedbackID) (Feedback, error)
	Update(ctx context.Context, id FeedbackID, fields map[string]any) (Feedback, error)
	Delete(ctx context.Context, id FeedbackID) (Feedback, error)
	List(ctx context.Context, filter CreatedRange, page Page) ([]Feedback, error)
}

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

type Clock interface {
	Agora() time.Time
}
