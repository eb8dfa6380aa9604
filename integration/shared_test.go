//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedDebtscanPath holds the path to a shared debtscan binary built once for all tests.
	sharedDebtscanPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDebtscanBinary returns the path to the debtscan binary, building it once if needed.
func getDebtscanBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "debtscan-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		debtscanPath := filepath.Join(tempDir, "debtscan")
		buildCmd := exec.Command("go", "build", "-o", debtscanPath, "./cmd/debtscan")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build debtscan: %v", err))
		}

		sharedDebtscanPath = debtscanPath
	})

	return sharedDebtscanPath
}

// runDebtscanCommand runs the shared binary from the project root.
func runDebtscanCommand(t *testing.T, args ...string) error {
	debtscanPath := getDebtscanBinary()
	cmd := exec.Command(debtscanPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
