package service

import (
	"github.com/deppfellow/odoo-bridge/internal/server"
)

type Services struct {
	Contact *ContactService
}

func NewService(s *server.Server) (*Services, error) {
	return &Services{
		Contact: NewContactService(s),
	}, nil
}
