package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/adrgraph/internal/report"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, NewDefaultConfig().Validate())
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.AuthEnabled())
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	require.Error(t, cfg.Validate())
}

func TestCorpusConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CorpusConfig
		wantErr bool
	}{
		{"defaults", CorpusConfig{Root: "docs/adr", Pattern: "**/ADR-*.md", Marker: "ADR"}, false},
		{"custom marker", CorpusConfig{Root: ".", Pattern: "*.md", Marker: "RFC"}, false},
		{"empty root", CorpusConfig{Pattern: "*.md", Marker: "ADR"}, true},
		{"bad pattern", CorpusConfig{Root: ".", Pattern: "[unclosed", Marker: "ADR"}, true},
		{"marker with dash", CorpusConfig{Root: ".", Pattern: "*.md", Marker: "AD-R"}, true},
		{"marker starting with digit", CorpusConfig{Root: ".", Pattern: "*.md", Marker: "1ADR"}, true},
		{"exclude globs", CorpusConfig{Root: ".", Pattern: "*.md", Exclude: []string{"**/drafts/**"}, Marker: "ADR"}, false},
		{"bad exclude glob", CorpusConfig{Root: ".", Pattern: "*.md", Exclude: []string{"[unclosed"}, Marker: "ADR"}, true},
		{"empty exclude entry", CorpusConfig{Root: ".", Pattern: "*.md", Exclude: []string{""}, Marker: "ADR"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReportConfig_Format(t *testing.T) {
	assert.NoError(t, (&ReportConfig{Format: FormatJSON}).Validate())
	assert.Error(t, (&ReportConfig{Format: "yaml"}).Validate())
}

func TestMapConfig_Categories(t *testing.T) {
	ok := MapConfig{Output: "map.md", Categories: []report.Category{
		{Name: "Core", Min: 0, Max: 99},
		{Name: "Rest", Min: 100, Max: -1},
	}}
	require.NoError(t, ok.Validate())

	inverted := MapConfig{Output: "map.md", Categories: []report.Category{{Name: "Bad", Min: 10, Max: 5}}}
	assert.Error(t, inverted.Validate())

	unnamed := MapConfig{Output: "map.md", Categories: []report.Category{{Min: 0, Max: 1}}}
	assert.Error(t, unnamed.Validate())
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	require.Error(t, cfg.Validate())
}
