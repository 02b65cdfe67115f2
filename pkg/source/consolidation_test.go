package source_test

import (
	"testing"

	"github.com/coursewatch/clonewatch/pkg/source"
)

// TestContentSourceConsolidation verifies that FilesystemSource satisfies
// ContentSource and can read a file through that interface.
func TestContentSourceConsolidation(t *testing.T) {
	var _ source.ContentSource = (*source.FilesystemSource)(nil)

	fs := source.NewFilesystem()
	testContentSourceUsage(t, fs)
}

// testContentSourceUsage is a helper that accepts a ContentSource
// This verifies the interface is usable
func testContentSourceUsage(t *testing.T, src source.ContentSource) {
	t.Helper()
	content, err := src.Read("../../go.mod")
	if err != nil {
		t.Errorf("ContentSource.Read failed: %v", err)
	}
	if len(content) == 0 {
		t.Error("ContentSource.Read returned empty content")
	}
}

// mockContentSource is a test implementation of ContentSource
type mockContentSource struct {
	content map[string][]byte
}

func (m *mockContentSource) Read(path string) ([]byte, error) {
	if content, ok := m.content[path]; ok {
		return content, nil
	}
	return nil, &testError{path: path}
}

type testError struct {
	path string
}

func (e *testError) Error() string {
	return "file not found: " + e.path
}

// TestMockContentSource verifies custom implementations work
func TestMockContentSource(t *testing.T) {
	mock := &mockContentSource{
		content: map[string][]byte{
			"test.go": []byte("package main"),
		},
	}

	var _ source.ContentSource = mock

	content, err := mock.Read("test.go")
	if err != nil {
		t.Errorf("mock.Read failed: %v", err)
	}
	if string(content) != "package main" {
		t.Errorf("unexpected content: %s", content)
	}

	_, err = mock.Read("nonexistent.go")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}
