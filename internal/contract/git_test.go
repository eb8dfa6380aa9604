package contract

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with failure scenarios that do
// not depend on repository contents.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()

	_, err := client.Run(ctx, "/nonexistent/path", "status")
	assert.Error(t, err, "Run should return an error for an invalid repo path")

	_, err = client.Run(ctx, t.TempDir(), "invalid-command")
	assert.Error(t, err, "Run should return an error for an invalid git command")
}

func TestParseCommitLog(t *testing.T) {
	raw := "dev@example.com\x1f2026-05-01T10:00:00+00:00\x1ffix: correct rounding\n" +
		"ops@example.com\x1f2026-05-02T11:30:00+02:00\x1ffeat: add scan | batch mode\n"

	commits := ParseCommitLog([]byte(raw))
	require.Len(t, commits, 2)

	assert.Equal(t, "fix: correct rounding", commits[0].Message)
	assert.Equal(t, "dev@example.com", commits[0].AuthorEmail)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), commits[0].Timestamp.UTC())

	// A '|' in the subject must survive parsing
	assert.Equal(t, "feat: add scan | batch mode", commits[1].Message)
}

func TestParseCommitLogMalformed(t *testing.T) {
	raw := "no separators here\n" +
		"dev@example.com\x1fnot-a-date\x1fsubject\n" +
		"dev@example.com\x1f2026-05-01T10:00:00Z\x1fgood one\n"

	commits := ParseCommitLog([]byte(raw))
	require.Len(t, commits, 1, "malformed lines should be skipped, not fail the log")
	assert.Equal(t, "good one", commits[0].Message)
}

func TestParseCommitLogEmpty(t *testing.T) {
	assert.Empty(t, ParseCommitLog(nil))
	assert.Empty(t, ParseCommitLog([]byte("\n\n")))
}

func FuzzParseCommitLog(f *testing.F) {
	f.Add([]byte("dev@example.com\x1f2026-05-01T10:00:00Z\x1ffix: patch\n"))
	f.Add([]byte("garbage line\nanother\x1fone\n"))
	f.Add([]byte(nil))

	f.Fuzz(func(t *testing.T, raw []byte) {
		commits := ParseCommitLog(raw)
		for _, c := range commits {
			assert.False(t, c.Timestamp.IsZero(), "parsed commits must carry a valid timestamp")
		}
	})
}
