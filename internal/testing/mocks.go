package testing

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/pipeline"
)

// MockCatalog is a mock offer catalog.
type MockCatalog struct {
	mock.Mock
}

// ListOffers returns the configured offers.
func (m *MockCatalog) ListOffers(ctx context.Context, filter compute.CapacityFilter) ([]compute.Offer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]compute.Offer), args.Error(1)
}

// MockControlPlane is a mock instance control plane.
type MockControlPlane struct {
	mock.Mock
}

// CreateOnDemand records an on-demand create.
func (m *MockControlPlane) CreateOnDemand(ctx context.Context, spec compute.PodSpec) (compute.Handle, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(compute.Handle), args.Error(1)
}

// CreateInterruptible records an interruptible create.
func (m *MockControlPlane) CreateInterruptible(ctx context.Context, spec compute.PodSpec, bidPerGPU float64) (compute.Handle, error) {
	args := m.Called(ctx, spec, bidPerGPU)
	return args.Get(0).(compute.Handle), args.Error(1)
}

// Status returns the configured status.
func (m *MockControlPlane) Status(ctx context.Context, handle compute.Handle) (*compute.PodStatus, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compute.PodStatus), args.Error(1)
}

// Stop records a stop request.
func (m *MockControlPlane) Stop(ctx context.Context, handle compute.Handle) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

// MockProvisioner is a mock instance lifecycle controller.
type MockProvisioner struct {
	mock.Mock
}

// Provision returns the configured instance.
func (m *MockProvisioner) Provision(ctx context.Context, spec compute.PodSpec, acq compute.Acquisition) (*compute.Instance, error) {
	args := m.Called(ctx, spec, acq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compute.Instance), args.Error(1)
}

// AwaitReady returns the configured endpoint.
func (m *MockProvisioner) AwaitReady(ctx context.Context, inst *compute.Instance) (compute.Endpoint, error) {
	args := m.Called(ctx, inst)
	return args.Get(0).(compute.Endpoint), args.Error(1)
}

// Teardown records a teardown.
func (m *MockProvisioner) Teardown(ctx context.Context, inst *compute.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

// MockSession is a mock remote session.
type MockSession struct {
	mock.Mock
}

// Run records a remote command.
func (m *MockSession) Run(ctx context.Context, command string, stdout, stderr io.Writer) error {
	args := m.Called(ctx, command, stdout, stderr)
	return args.Error(0)
}

// UploadDir records an upload.
func (m *MockSession) UploadDir(ctx context.Context, localDir, remoteDir string) error {
	args := m.Called(ctx, localDir, remoteDir)
	return args.Error(0)
}

// DownloadDir records a download.
func (m *MockSession) DownloadDir(ctx context.Context, remoteDir, localDir string) error {
	args := m.Called(ctx, remoteDir, localDir)
	return args.Error(0)
}

// Close records the session close.
func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockDialer is a mock remote session dialer.
type MockDialer struct {
	mock.Mock
}

// Open returns the configured session.
func (m *MockDialer) Open(ctx context.Context, host string, port int) (pipeline.RemoteSession, error) {
	args := m.Called(ctx, host, port)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pipeline.RemoteSession), args.Error(1)
}

// MockArchiver is a mock results archiver.
type MockArchiver struct {
	mock.Mock
}

// Archive records an archive request.
func (m *MockArchiver) Archive(ctx context.Context, localDir, podID string) (int, error) {
	args := m.Called(ctx, localDir, podID)
	return args.Int(0), args.Error(1)
}
