package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stream-push-relay/internal/models"
	"stream-push-relay/internal/sender"
)

// MockSender is a mock type for the Sender type
type MockSender struct {
	mock.Mock
}

// Send provides a mock function with given fields: ctx, msg
func (_m *MockSender) Send(ctx context.Context, msg models.PushMessage) models.SendResult {
	ret := _m.Called(ctx, msg)

	var r0 models.SendResult
	if rf, ok := ret.Get(0).(func(context.Context, models.PushMessage) models.SendResult); ok {
		r0 = rf(ctx, msg)
	} else {
		r0 = ret.Get(0).(models.SendResult)
	}

	return r0
}

// NewMockSender creates a new instance of MockSender. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSender {
	m := &MockSender{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ sender.Sender = (*MockSender)(nil)
