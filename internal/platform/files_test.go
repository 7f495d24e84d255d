package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestEnsureOutputDir(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "a", "b")

	got, err := EnsureOutputDir(target)
	if err != nil {
		t.Fatalf("EnsureOutputDir() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected absolute path, got %s", got)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("Directory was not created: %s", got)
	}

	if _, err := EnsureOutputDir(""); err == nil {
		t.Error("Expected error for empty directory")
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestOpenFolder_NonExistent(t *testing.T) {
	err := OpenFolder(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Expected error for non-existent folder, got nil")
	}
	if !strings.Contains(err.Error(), "folder does not exist:") {
		t.Errorf("Error message should contain 'folder does not exist:', got: %v", err)
	}
}

func TestOpenFolder_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := OpenFolder(file); err == nil {
		t.Error("Expected error when opening a regular file as folder")
	}
}
