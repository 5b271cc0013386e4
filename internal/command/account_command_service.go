package command

import (
	"context"

	"github.com/eaglebank/account-service/internal/cqrs"
	"github.com/eaglebank/account-service/internal/events"
	"github.com/eaglebank/account-service/internal/models"
	"github.com/eaglebank/account-service/internal/repository"
	log "github.com/sirupsen/logrus"
)

// EventPublisher is satisfied by events.Publisher and events.NopPublisher.
type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, eventType string, accountID int64, data any) error
}

// AccountCommandService performs the account mutations. Each command runs a
// single write against the repository and then announces the change.
type AccountCommandService struct {
	repo      repository.AccountRepository
	publisher EventPublisher
}

func NewAccountCommandService(repo repository.AccountRepository, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{repo: repo, publisher: publisher}
}

func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	account := &models.Account{}
	if err := account.Deserialize(cmd.Data); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountCreated, account.ID, events.AccountCreatedEvent{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
	})
	return account, nil
}

// UpdateAccount looks the account up before decoding the payload, so an
// unknown id is reported ahead of missing or mistyped fields. A body that is
// not a JSON object never gets here; the handler rejects it first.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	account, err := s.repo.Find(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if err := account.Deserialize(cmd.Data); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountUpdated, account.ID, events.AccountUpdatedEvent{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
	})
	return account, nil
}

func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	if err := s.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}
	s.publish(ctx, events.AccountDeleted, cmd.ID, events.AccountDeletedEvent{AccountID: cmd.ID})
	return nil
}

// publish never fails the command; the row is already written.
func (s *AccountCommandService) publish(ctx context.Context, eventType string, accountID int64, data any) {
	if err := s.publisher.PublishAccountEvent(ctx, eventType, accountID, data); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": eventType, "account_id": accountID}).Warn("Failed to publish account event")
	}
}
