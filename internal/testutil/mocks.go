package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/regionmap/internal/domain/representative"
)

// MockRepository is a testify mock of representative.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Name() string { return "mock" }

func (m *MockRepository) Fetch(ctx context.Context) ([]representative.Representative, error) {
	args := m.Called(ctx)
	reps, _ := args.Get(0).([]representative.Representative)
	return reps, args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*representative.Representative, error) {
	args := m.Called(ctx, id)
	rep, _ := args.Get(0).(*representative.Representative)
	return rep, args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, rep *representative.Representative) error {
	return m.Called(ctx, rep).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, rep *representative.Representative) error {
	return m.Called(ctx, rep).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// StubSource is a representative.Source returning a fixed collection or
// error.  It counts calls and is safe for concurrent use.
type StubSource struct {
	mu    sync.Mutex
	name  string
	reps  []representative.Representative
	err   error
	calls int
}

// NewStubSource returns a source named name serving reps.
func NewStubSource(name string, reps []representative.Representative) *StubSource {
	return &StubSource{name: name, reps: reps}
}

func (s *StubSource) Name() string { return s.name }

func (s *StubSource) Fetch(ctx context.Context) ([]representative.Representative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]representative.Representative, len(s.reps))
	copy(out, s.reps)
	return out, nil
}

// Set replaces the served collection and clears any error.
func (s *StubSource) Set(reps []representative.Representative) {
	s.mu.Lock()
	s.reps, s.err = reps, nil
	s.mu.Unlock()
}

// Fail makes subsequent fetches return err.
func (s *StubSource) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Calls reports how many times Fetch ran.
func (s *StubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MockCache is a testify mock of the redis Cache interface.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	return m.Called(ctx, key, dest, ttl, loader).Error(0)
}

func (m *MockCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockPublisher records PublishEvent calls.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, topic, eventType string, payload interface{}) error {
	return m.Called(ctx, topic, eventType, payload).Error(0)
}

//Personal.AI order the ending
