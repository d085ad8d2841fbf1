package types

import (
	"testing"
	"time"
)

// TestInterfaces verifies that our interfaces are properly structured
func TestInterfaces(t *testing.T) {
	var (
		_ Session          = (*mockSession)(nil)
		_ DirReader        = (*mockDirReader)(nil)
		_ RemoteFile       = (*mockRemoteFile)(nil)
		_ Auditor          = (*mockAuditor)(nil)
		_ MetricsCollector = (*mockMetricsCollector)(nil)
		_ HealthRecorder   = (*mockHealthRecorder)(nil)
	)
}

func TestAllOperations(t *testing.T) {
	seen := make(map[string]bool)
	for _, op := range AllOperations {
		if seen[op] {
			t.Errorf("operation %q listed twice", op)
		}
		seen[op] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 operations, got %d", len(seen))
	}
}

type mockSession struct{}

func (m *mockSession) Stat(path string) (RemoteAttr, error) { return RemoteAttr{}, nil }

func (m *mockSession) OpenDir(path string) (DirReader, error) { return &mockDirReader{}, nil }

func (m *mockSession) OpenFile(path string, flags int, mode uint32) (RemoteFile, error) {
	return &mockRemoteFile{}, nil
}

func (m *mockSession) Close() error { return nil }

type mockDirReader struct{}

func (m *mockDirReader) Next() (RemoteAttr, bool) { return RemoteAttr{}, false }
func (m *mockDirReader) Close() error             { return nil }

type mockRemoteFile struct{}

func (m *mockRemoteFile) Seek(offset int64) error     { return nil }
func (m *mockRemoteFile) Read(p []byte) (int, error)  { return 0, nil }
func (m *mockRemoteFile) Write(p []byte) (int, error) { return len(p), nil }
func (m *mockRemoteFile) Close() error                { return nil }

type mockAuditor struct{}

func (m *mockAuditor) Record(operation, path string) {}

type mockMetricsCollector struct{}

func (m *mockMetricsCollector) RecordOperation(operation string, duration time.Duration, size int64, success bool) {
}
func (m *mockMetricsCollector) RecordError(operation string, err error) {}
func (m *mockMetricsCollector) SetOpenHandles(n int)                    {}
func (m *mockMetricsCollector) GetMetrics() map[string]interface{}      { return nil }

type mockHealthRecorder struct{}

func (m *mockHealthRecorder) RecordOutcome(component string, err error) {}
