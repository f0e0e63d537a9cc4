package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantNil bool
		wantErr error
	}{
		{name: "null document", input: "null", wantNil: true},
		{name: "empty document", input: "  \n", wantNil: true},
		{name: "array is a contract violation", input: "[]", wantErr: ErrNotObject},
		{name: "object", input: `{"suspicious_accounts":[{"account_id":"X","suspicion_score":12}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Len(t, a.SuspiciousAccounts, 1)
		})
	}
}

func TestFileSource(t *testing.T) {
	src := NewFileSource(filepath.Join("testdata", "cycle.json"))
	a, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Len(t, a.SuspiciousAccounts, 3)
	assert.Equal(t, "RING_001", a.SuspiciousAccounts[0].Ring())
	require.NotNil(t, a.GraphData)
	assert.Len(t, a.GraphData.Links, 4)

	ring, ok := a.RingByID("RING_001")
	require.True(t, ok)
	assert.Equal(t, "cycle", ring.PatternType)

	_, err = NewFileSource(filepath.Join("testdata", "missing.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := NewFileSource(filepath.Join("testdata", "cycle.json")).Load(context.Background())
	require.NoError(t, err)
	b, err := NewFileSource(filepath.Join("testdata", "cycle.json")).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Empty(t, Fingerprint(nil))

	b.SuspiciousAccounts[0].SuspicionScore = 10
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestStaticSourceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := StaticSource{Analysis: &Analysis{}}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
