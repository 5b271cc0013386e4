package query

import (
	"context"

	"github.com/eaglebank/account-service/internal/cqrs"
	"github.com/eaglebank/account-service/internal/models"
	"github.com/eaglebank/account-service/internal/repository"
)

type AccountQueryService struct {
	repo repository.AccountRepository
}

func NewAccountQueryService(repo repository.AccountRepository) *AccountQueryService {
	return &AccountQueryService{repo: repo}
}

func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	return s.repo.Find(ctx, q.ID)
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, _ cqrs.ListAccountsQuery) ([]models.Account, error) {
	return s.repo.All(ctx)
}
