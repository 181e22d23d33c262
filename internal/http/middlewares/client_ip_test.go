package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/rate"
)

func TestClientIP_IgnoresForwardedFromUntrusted(t *testing.T) {
	var nilResolver *IPResolver
	empty, err := NewIPResolver(nil)
	require.NoError(t, err)

	for _, ips := range []*IPResolver{nilResolver, empty} {
		req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		assert.Equal(t, "203.0.113.7", ips.ClientIP(req))
	}
}

func TestClientIP_TrustedProxyChain(t *testing.T) {
	ips, err := NewIPResolver([]string{"10.0.0.0/8", "192.168.1.1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.RemoteAddr = "10.0.0.5:4000"
	// el cliente puede inventar la parte izquierda; cuenta el último salto no confiable
	req.Header.Set("X-Forwarded-For", "6.6.6.6, 198.51.100.9, 192.168.1.1")
	assert.Equal(t, "198.51.100.9", ips.ClientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.5", ips.ClientIP(req))
}

func TestNewIPResolver_Invalid(t *testing.T) {
	_, err := NewIPResolver([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = NewIPResolver([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestWithRateLimit_SpoofedForwardedForStillLimited(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: rate.NewMemoryLimiter(2, time.Hour)})(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", "10.9.9."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
