package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, tc := range []struct {
		level, env string
	}{
		{"info", "production"},
		{"debug", "development"},
		{"", "development"},
		{"silent", "production"},
		{"OFF", ""},
	} {
		logger, err := NewLogger(tc.level, tc.env)
		require.NoError(t, err, "level=%q env=%q", tc.level, tc.env)
		require.NotNil(t, logger)
	}

	_, err := NewLogger("chatty", "development")
	assert.Error(t, err)
}

func TestCollector_Helpers(t *testing.T) {
	c := NewCollector("galaxy_test")

	c.StarBorn()
	c.StarBorn()
	c.StarRemoved("supernova")
	c.Tick()
	c.SetStars("g1", 3)
	c.ViewerJoined()
	c.ViewerJoined()
	c.ViewerLeft()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.StarsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StarsRemoved.WithLabelValues("supernova")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.ActiveStars.WithLabelValues("g1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Viewers))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "galaxy_test_stars_created_total 2"))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.StarBorn()
		c.StarRemoved("dismissed")
		c.Tick()
		c.SetStars("g", 1)
		c.ForgetGalaxy("g")
		c.ViewerJoined()
		c.ViewerLeft()
		c.SaveFailed()
	})
}
