package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
)

type ClientTestSuite struct {
	suite.Suite
	log logging.Logger
	api *MockMinIOAPI
}

func (s *ClientTestSuite) SetupTest() {
	s.log = logging.NewNopLogger()
	s.api = new(MockMinIOAPI)
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)

	s.Equal("us-east-1", cfg.Region)
	s.Equal("regionmap-geodata", cfg.Buckets.GeoData)
	s.Equal("regionmap-exports", cfg.Buckets.Exports)
	s.Equal(30, cfg.ExportRetention)
}

func (s *ClientTestSuite) TestGetBucketName() {
	client := &MinIOClient{config: &MinIOConfig{Buckets: BucketConfig{GeoData: "geo", Exports: "out"}}}

	s.Equal("out", client.GetBucketName("exports"))
	s.Equal("geo", client.GetBucketName("geodata"))
	s.Equal("geo", client.GetBucketName("unknown"))
}

func (s *ClientTestSuite) TestNewClient_CreatesMissingBuckets() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "regionmap-geodata").Return(true, nil)
	s.api.On("BucketExists", mock.Anything, "regionmap-exports").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "regionmap-exports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	s.api.On("SetBucketLifecycle", mock.Anything, "regionmap-exports",
		mock.MatchedBy(func(c *lifecycle.Configuration) bool {
			return len(c.Rules) == 1 && c.Rules[0].Expiration.Days == 30
		})).Return(nil)

	client, err := newClientWithAPI(context.Background(), s.api, &MinIOConfig{}, s.log)
	s.Require().NoError(err)
	s.NotNil(client)
	s.api.AssertExpectations(s.T())
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, "regionmap-geodata", mock.Anything)
}

func (s *ClientTestSuite) TestNewClient_Unreachable() {
	s.api.On("ListBuckets", mock.Anything).Return(nil, errors.New("dial tcp: refused"))

	_, err := newClientWithAPI(context.Background(), s.api, &MinIOConfig{}, s.log)
	s.Error(err)
	s.Contains(err.Error(), "failed to connect to minio")
}

func (s *ClientTestSuite) TestNewClient_LifecycleFailureIsNotFatal() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, mock.Anything).Return(true, nil)
	s.api.On("SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("not supported"))

	_, err := newClientWithAPI(context.Background(), s.api, &MinIOConfig{}, s.log)
	s.NoError(err)
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "regionmap-geodata").Return(true, nil)
	s.api.On("BucketExists", mock.Anything, "regionmap-exports").Return(false, nil)

	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	client := &MinIOClient{client: s.api, config: cfg, logger: s.log}

	status, err := client.HealthCheck(context.Background())
	s.Require().NoError(err)
	s.False(status.Healthy)
	s.True(status.BucketStatuses["regionmap-geodata"])
	s.Contains(status.Error, "regionmap-exports")
}

func (s *ClientTestSuite) TestHealthCheck_Closed() {
	client := &MinIOClient{client: s.api, config: &MinIOConfig{}, logger: s.log}
	s.NoError(client.Close())

	_, err := client.HealthCheck(context.Background())
	s.ErrorIs(err, ErrMinIOClientClosed)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestSdkClientSatisfiesAPI(t *testing.T) {
	var api MinIOAPI = sdkClient{}
	assert.NotNil(t, api)
}

//Personal.AI order the ending
