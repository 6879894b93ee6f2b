package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stream-push-relay/internal/models"
	"stream-push-relay/internal/registry"
)

// MockRegistry is a mock type for the Registry type
type MockRegistry struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, userID, token
func (_m *MockRegistry) Register(ctx context.Context, userID, token string) error {
	ret := _m.Called(ctx, userID, token)
	return ret.Error(0)
}

// Lookup provides a mock function with given fields: ctx, userID
func (_m *MockRegistry) Lookup(ctx context.Context, userID string) (string, error) {
	ret := _m.Called(ctx, userID)
	return ret.String(0), ret.Error(1)
}

// List provides a mock function with given fields: ctx
func (_m *MockRegistry) List(ctx context.Context) ([]models.TokenPreview, error) {
	ret := _m.Called(ctx)

	var r0 []models.TokenPreview
	if v := ret.Get(0); v != nil {
		r0 = v.([]models.TokenPreview)
	}
	return r0, ret.Error(1)
}

// Count provides a mock function with given fields: ctx
func (_m *MockRegistry) Count(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// NewMockRegistry creates a new instance of MockRegistry. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRegistry {
	m := &MockRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ registry.Registry = (*MockRegistry)(nil)
