package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseKeyArg(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "G10/L2/u3/S1", want: "G10/L2/u3/S1"},
		{in: "/G10/L2/r1/S1/", want: "G10/L2/r1/S1"},
		{in: "G10/L2/x3/S1", wantErr: true},
		{in: "G10/L2/u3", wantErr: true},
		{in: "G10/L2/u/S1", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseKeyArg(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "G1/L1/u2/S3", keyPath(v1alpha1.VideoKey{Grade: "G1", Level: "L1", Kind: v1alpha1.VideoKindUnit, Unit: "2", Session: "S3"}))
	assert.Equal(t, "G1/L1/r4/S3", keyPath(v1alpha1.VideoKey{Grade: "G1", Level: "L1", Kind: v1alpha1.VideoKindRevision, Revision: "4", Session: "S3"}))
}

func TestTokenIssue(t *testing.T) {
	const key = "0123456789abcdef0123456789abcdef"

	out, err := runCmd(t, "token", "issue", "--user", "alice", "--role", "admin", "--signing-key", key)
	require.NoError(t, err)

	p, err := auth.NewJWTVerifier(key).Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", p.UserID)
	assert.Equal(t, auth.RoleAdmin, p.Role)
}

func TestTokenIssue_BadRole(t *testing.T) {
	_, err := runCmd(t, "token", "issue", "--user", "alice", "--role", "root", "--signing-key", "k")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "edplatctl version dev")
}
