package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"sync"
)

// MockS3Service is an in-memory stand-in for the real S3 client. Keys are
// deterministic, unlike the timestamped keys the real client generates, so
// tests can assert on them.
type MockS3Service struct {
	objects     map[string][]byte
	failNextErr error
	mu          sync.RWMutex
}

// NewMockS3Service creates a new mock S3 backend
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadFile stores the file content in memory under a deterministic key
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	if m.failNextErr != nil {
		err := m.failNextErr
		m.failNextErr = nil
		m.mu.Unlock()
		return "", err
	}
	m.mu.Unlock()

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	s3Key := fmt.Sprintf("service-icons/mock_%s", filepath.Base(fileHeader.Filename))

	m.mu.Lock()
	m.objects[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// GetPresignedURL returns a presigned-looking URL for a stored object
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?X-Amz-Signature=mock", s3Key), nil
}

// DeleteFile removes an object from the in-memory store
func (m *MockS3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()

	return nil
}

// FailNextUpload makes the next UploadFile call return the given error
func (m *MockS3Service) FailNextUpload(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNextErr = err
}

// Object returns the stored content for a key (for testing assertions)
func (m *MockS3Service) Object(s3Key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, exists := m.objects[s3Key]
	return content, exists
}

// ObjectCount returns how many objects the mock currently holds
func (m *MockS3Service) ObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Clear removes all stored objects
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
	m.failNextErr = nil
}
