package flagx

import (
	"os"
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
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-d", "-s", "secret"},
			allowedFlags: []string{"-d", "-s"},
			want:         []string{"-d", "-s", "secret"},
		},
		{
			name:         "flag at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"bin", "-a", ":8080", "-c", "server.json"}
		assert.Equal(t, "server.json", ConfigPath())
	})

	t.Run("long flag with equals", func(t *testing.T) {
		os.Args = []string{"bin", "-config=other.json"}
		assert.Equal(t, "other.json", ConfigPath())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigEnvVar, "from-env.json")
		assert.Equal(t, "from-env.json", ConfigPath())
	})

	t.Run("nothing", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigEnvVar, "")
		assert.Equal(t, "", ConfigPath())
	})
}
