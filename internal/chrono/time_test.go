package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	loc, err = LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	require.Equal(t, "America/Los_Angeles", loc.String())

	_, err = LoadLocation("Not/AZone")
	require.Error(t, err)
}

func TestStandardTimeLocation(t *testing.T) {
	utc := NewStandardTime(time.UTC)
	require.Equal(t, time.UTC, utc.Now().Location())
}
