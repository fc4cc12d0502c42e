// File: internal/auth/auth_test.go
package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "cookies.json")

	want := []cookieRecord{
		{
			Name:     "li_at",
			Value:    "AQEDAVh9...",
			Domain:   ".linkedin.com",
			Path:     "/",
			Expires:  float64(time.Now().Add(24 * time.Hour).Unix()),
			Secure:   true,
			HTTPOnly: true,
		},
		{Name: "lang", Value: "v=2&lang=en-us", Domain: ".linkedin.com", Path: "/"},
	}

	require.NoError(t, writeCookieRecords(path, want))

	got, err := readCookieRecords(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadCookieRecordsMissingFile(t *testing.T) {
	_, err := readCookieRecords(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadCookieRecordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, writeCookieRecords(path, []cookieRecord{}))

	_, err := readCookieRecords(path)
	assert.ErrorContains(t, err, "empty")
}

func TestRecordsToParams(t *testing.T) {
	exp := float64(1893456000)
	params := recordsToParams([]cookieRecord{
		{Name: "li_at", Value: "tok", Domain: ".linkedin.com", Path: "/", Expires: exp, Secure: true, HTTPOnly: true},
		{Name: "session", Value: "s", Domain: ".linkedin.com", Path: "/"},
	})

	require.Len(t, params, 2)
	assert.Equal(t, "li_at", params[0].Name)
	assert.True(t, params[0].Secure)
	require.NotNil(t, params[0].Expires)
	assert.Equal(t, int64(exp), time.Time(*params[0].Expires).Unix())
	assert.Nil(t, params[1].Expires)
}

func TestCookiesToRecords(t *testing.T) {
	records := cookiesToRecords([]*network.Cookie{
		{Name: "li_at", Value: "tok", Domain: ".linkedin.com", Path: "/", Expires: 1893456000, Secure: true, HTTPOnly: true},
	})

	require.Len(t, records, 1)
	assert.Equal(t, cookieRecord{
		Name:     "li_at",
		Value:    "tok",
		Domain:   ".linkedin.com",
		Path:     "/",
		Expires:  1893456000,
		Secure:   true,
		HTTPOnly: true,
	}, records[0])
}
