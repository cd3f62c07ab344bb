package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoverSection_Defaults(t *testing.T) {
	s := NewRemoverSection()

	assert.Equal(t, SectionIDRemover, s.ID())
	assert.False(t, s.IsDebug())
	assert.Empty(t, s.GetLocale())
	assert.Equal(t, "normal", s.GetLogLevel())
	assert.NoError(t, s.Validate())
}

func TestRemoverSection_SetData(t *testing.T) {
	s := NewRemoverSection()

	err := s.SetData(map[string]interface{}{
		"debug":     true,
		"locale":    "de-AT",
		"log_level": "verbose",
		"unknown":   42,
	})
	require.NoError(t, err)

	assert.True(t, s.IsDebug())
	assert.Equal(t, "de-AT", s.GetLocale())
	assert.Equal(t, "verbose", s.GetLogLevel())
	assert.NoError(t, s.Validate())

	assert.Error(t, s.SetData(map[string]interface{}{"debug": "yes"}))
	assert.Error(t, s.SetData(map[string]interface{}{"locale": 3}))
	assert.NoError(t, s.SetData(nil))
}

func TestRemoverSection_Validate(t *testing.T) {
	s := NewRemoverSection()

	s.LogLevel = "chatty"
	assert.Error(t, s.Validate())

	s.LogLevel = "debug"
	s.SetLocale("de;q=oops")
	assert.Error(t, s.Validate())

	s.SetLocale("pt_BR")
	assert.NoError(t, s.Validate())
}

func TestRemoverSection_Reset(t *testing.T) {
	s := NewRemoverSection()
	s.SetDebug(true)
	s.SetLocale("it")
	s.LogLevel = "quiet"

	s.Reset()

	assert.False(t, s.IsDebug())
	assert.Empty(t, s.GetLocale())
	assert.Equal(t, "normal", s.GetLogLevel())
}

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection()

	headless, width, height, waitUntil, timeout := s.GetSettings()
	assert.True(t, headless)
	assert.Equal(t, 1280, width)
	assert.Equal(t, 720, height)
	assert.Equal(t, "load", waitUntil)
	assert.Equal(t, 30*time.Second, timeout)
	assert.NoError(t, s.Validate())
}

func TestBrowserSection_SetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
		check   func(t *testing.T, s *BrowserSection)
	}{
		{
			name: "json numbers",
			data: map[string]interface{}{"viewport_width": float64(1920), "viewport_height": float64(1080)},
			check: func(t *testing.T, s *BrowserSection) {
				assert.Equal(t, 1920, s.ViewportWidth)
				assert.Equal(t, 1080, s.ViewportHeight)
			},
		},
		{
			name: "duration string",
			data: map[string]interface{}{"timeout": "45s", "wait_until": "networkidle", "headless": false},
			check: func(t *testing.T, s *BrowserSection) {
				assert.Equal(t, 45*time.Second, s.Timeout)
				assert.Equal(t, "networkidle", s.WaitUntil)
				assert.False(t, s.Headless)
			},
		},
		{
			name: "milliseconds number",
			data: map[string]interface{}{"timeout": float64(30000)},
			check: func(t *testing.T, s *BrowserSection) {
				assert.Equal(t, 30*time.Second, s.Timeout)
				assert.NoError(t, s.Validate())
			},
		},
		{
			name: "milliseconds int",
			data: map[string]interface{}{"timeout": 1500},
			check: func(t *testing.T, s *BrowserSection) {
				assert.Equal(t, 1500*time.Millisecond, s.Timeout)
			},
		},
		{name: "fractional width", data: map[string]interface{}{"viewport_width": 10.5}, wantErr: true},
		{name: "bad duration", data: map[string]interface{}{"timeout": "soon"}, wantErr: true},
		{name: "bad headless", data: map[string]interface{}{"headless": "true"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestBrowserSection_DataRoundTrip(t *testing.T) {
	s := NewBrowserSection()
	s.SetViewport(800, 600)
	s.SetHeadless(false)

	other := NewBrowserSection()
	require.NoError(t, other.SetData(s.Data()))

	assert.Equal(t, 800, other.ViewportWidth)
	assert.Equal(t, 600, other.ViewportHeight)
	assert.False(t, other.Headless)
	assert.Equal(t, s.Timeout, other.Timeout)
}

func TestBrowserSection_Validate(t *testing.T) {
	s := NewBrowserSection()

	s.SetViewport(0, 600)
	assert.Error(t, s.Validate())

	s.Reset()
	s.WaitUntil = "whenever"
	assert.Error(t, s.Validate())

	s.Reset()
	s.Timeout = 10 * time.Minute
	assert.Error(t, s.Validate())
}
