// Seed de desenvolvimento: cria os usuários padrão (operador e supervisor) com
// senha em bcrypt e uma ronda pendente de exemplo para o dia corrente.
package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/marcelojr/rondas-api/internal/domain"
	"github.com/marcelojr/rondas-api/internal/platform/clock"
	"github.com/marcelojr/rondas-api/internal/platform/config"
	"github.com/marcelojr/rondas-api/internal/platform/logger"
	"github.com/marcelojr/rondas-api/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/rondas-api/internal/platform/storage/postgres"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}

	if err := migrations.Run(db); err != nil {
		logger.Fatal("falha na migracao", "err", err)
	}

	users := postgresstorage.NewUserRepository(db)
	roundsRepo := postgresstorage.NewRoundRepository(db)
	relogio := clock.NewSystemClock()
	agora := relogio.Agora()

	operador, err := seedUser(ctx, users, domain.User{
		Name:      "Henrique",
		Email:     cfg.SeedOperatorEmail,
		Role:      domain.RoleOperator,
		CreatedAt: agora,
	}, cfg.SeedOperatorPassword)
	if err != nil {
		logger.Fatal("falha ao criar operador", "err", err)
	}

	if _, err := seedUser(ctx, users, domain.User{
		Name:      "Juliana",
		Email:     cfg.SeedSupervisorEmail,
		Role:      domain.RoleSupervisor,
		CreatedAt: agora,
	}, cfg.SeedSupervisorPassword); err != nil {
		logger.Fatal("falha ao criar supervisor", "err", err)
	}

	notes := "Primeira ronda de teste"
	if _, err := roundsRepo.Create(ctx, domain.Round{
		Date:      agora.Format("2006-01-02"),
		Index:     0,
		UserID:    operador.ID,
		CreatedAt: agora,
		Status:    domain.StatusPendente,
		Checklist: domain.DefaultChecklist(),
		Notes:     &notes,
	}); err != nil {
		logger.Fatal("falha ao criar ronda de exemplo", "err", err)
	}

	logger.Info("seed concluido")
}

// seedUser é idempotente: usuários já existentes são reaproveitados pelo e-mail.
func seedUser(ctx context.Context, repo domain.UserRepository, user domain.User, password string) (domain.User, error) {
	existing, err := repo.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("seed: gerar hash: %w", err)
	}
	user.PasswordHash = string(hash)

	return repo.Create(ctx, user)
}
