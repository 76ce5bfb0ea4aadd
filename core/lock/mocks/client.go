package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ztrayner/airbnb-lock-manager/core/lock"
)

// Client is a mock implementation of lock.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListAccessCodes(ctx context.Context) ([]lock.AccessCode, error) {
	args := m.Called(ctx)
	if codes, ok := args.Get(0).([]lock.AccessCode); ok {
		return codes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateAccessCode(ctx context.Context, code, name string, begin, end time.Time) error {
	args := m.Called(ctx, code, name, begin, end)
	return args.Error(0)
}

func (m *Client) UpdateAccessCode(ctx context.Context, id, code, name string, begin, end time.Time) error {
	args := m.Called(ctx, id, code, name, begin, end)
	return args.Error(0)
}

func (m *Client) DeleteAccessCode(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
