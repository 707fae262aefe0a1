//go:build unit

package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso", "2024-02-29", "2024-02-29", false},
		{"slashes", "2024/01/15", "2024-01-15", false},
		{"surrounding space", " 2023-12-01 ", "2023-12-01", false},
		{"time of day", "2024-01-15 10:00", "", true},
		{"not a date", "yesterday", "", true},
		{"impossible day", "2023-02-30", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2022, 5, 6, 13, 14, 0, 0, time.UTC)))
	assert.Equal(t, "2022-05-06", d.String())

	require.NoError(t, d.Scan([]byte("2021-01-02")))
	assert.Equal(t, "2021-01-02", d.String())

	require.NoError(t, d.Scan("2020-07-08T00:00:00Z"))
	assert.Equal(t, "2020-07-08", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.March, 9))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024/03/10"`), &d))
	assert.Equal(t, "2024-03-10", d.String())
}

func TestCommentState_CanTransitionTo(t *testing.T) {
	assert.True(t, CommentActive.CanTransitionTo(CommentDeleted))
	assert.False(t, CommentDeleted.CanTransitionTo(CommentActive))
	assert.False(t, CommentDeleted.CanTransitionTo(CommentDeleted))
	assert.False(t, CommentActive.CanTransitionTo(CommentActive))
}
