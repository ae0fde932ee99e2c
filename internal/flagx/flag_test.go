package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-x=48h", "-a", "localhost"},
			allowedFlags: []string{"-x"},
			want:         []string{"-x=48h"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-q", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-d", "-a", ":9000"},
			allowedFlags: []string{"-d", "-a"},
			want:         []string{"-d", "-a", ":9000"},
		},
		{
			name:         "order preserved",
			args:         []string{"-a", ":1", "-env", ".env", "-a", ":2"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", ":1", "-a", ":2"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlags(t *testing.T) {
	t.Run("short json", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-c", "/path/short.json", "-a", ":1"})
		assert.Equal(t, ConfigFiles{JSON: "/path/short.json"}, got)
	})

	t.Run("long json and env", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-config", "/path/long.json", "-env", "/path/.env"})
		assert.Equal(t, ConfigFiles{JSON: "/path/long.json", Env: "/path/.env"}, got)
	})

	t.Run("last json wins", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-c", "/1.json", "-config=/2.json"})
		assert.Equal(t, "/2.json", got.JSON)
	})

	t.Run("none", func(t *testing.T) {
		assert.Equal(t, ConfigFiles{}, ConfigFileFlags([]string{"-x", "1"}))
	})
}

func TestStripArgs(t *testing.T) {
	flags := []string{"-a", "-t", "-c"}

	assert.Equal(t, []string{"verify", "tok"}, StripArgs([]string{"-a", "h:1", "verify", "tok"}, flags))
	assert.Equal(t, []string{"login", "x@y.z"}, StripArgs([]string{"login", "-t=5s", "x@y.z"}, flags))
	assert.Equal(t, []string{"-v", "reset", "tok"}, StripArgs([]string{"-v", "-c", "cfg.json", "reset", "tok"}, flags))
	assert.Equal(t, []string{}, StripArgs(nil, flags))
}
