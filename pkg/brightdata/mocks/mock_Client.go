// Package mocks provides test doubles for the brightdata client.
package mocks

import (
	"context"

	brightdata "github.com/sells-group/prospect-cli/pkg/brightdata"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req brightdata.SearchRequest) (*brightdata.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *brightdata.SearchResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, brightdata.SearchRequest) (*brightdata.SearchResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*brightdata.SearchResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Scrape provides a mock function with given fields: ctx, req
func (_m *MockClient) Scrape(ctx context.Context, req brightdata.DatasetRequest) (*brightdata.DatasetResponse, error) {
	return _m.dataset("Scrape", ctx, req)
}

// Trigger provides a mock function with given fields: ctx, req
func (_m *MockClient) Trigger(ctx context.Context, req brightdata.DatasetRequest) (*brightdata.DatasetResponse, error) {
	return _m.dataset("Trigger", ctx, req)
}

func (_m *MockClient) dataset(method string, ctx context.Context, req brightdata.DatasetRequest) (*brightdata.DatasetResponse, error) {
	ret := _m.MethodCalled(method, ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for " + method)
	}

	var r0 *brightdata.DatasetResponse
	if rf, ok := ret.Get(0).(func(context.Context, brightdata.DatasetRequest) (*brightdata.DatasetResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*brightdata.DatasetResponse)
	}
	return r0, ret.Error(1)
}

// Snapshot provides a mock function with given fields: ctx, id
func (_m *MockClient) Snapshot(ctx context.Context, id string) (*brightdata.SnapshotResponse, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Snapshot")
	}

	var r0 *brightdata.SnapshotResponse
	if rf, ok := ret.Get(0).(func(context.Context, string) (*brightdata.SnapshotResponse, error)); ok {
		return rf(ctx, id)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*brightdata.SnapshotResponse)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
