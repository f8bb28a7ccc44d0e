package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

type contactService struct {
	contacts ports.ContactRepository
	log      zerolog.Logger
}

// NewContactService returns a ContactService backed by the given repository.
func NewContactService(contacts ports.ContactRepository, log zerolog.Logger) ports.ContactService {
	return &contactService{contacts: contacts, log: log}
}

func (s *contactService) Submit(ctx context.Context, name, email, message string) error {
	msg := &domain.ContactMessage{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.contacts.Insert(ctx, msg); err != nil {
		s.log.Error().Err(err).Msg("failed to store contact message")
		return fmt.Errorf("submit contact: %w", err)
	}
	return nil
}
