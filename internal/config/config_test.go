package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigPrecedenceFlagOverEnv(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/from-file"
`)

	flagDir := "/srv/from-flag"
	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		Env: map[string]string{
			"MEDIAHUB_DATA_DIR": "/srv/from-env",
		},
		Flags: FlagOverrides{
			DataDir: &flagDir,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "/srv/from-flag", cfg.Storage.DataDir)
}

func TestLoadConfigPrecedenceEnvOverFile(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/from-file"
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		Env: map[string]string{
			"MEDIAHUB_DATA_DIR": "/srv/from-env",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "/srv/from-env", cfg.Storage.DataDir)
}

func TestLoadConfigPrecedenceFileOverDefault(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/from-file"
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, "/srv/from-file", cfg.Storage.DataDir)
}

func TestLoadConfigFromTOMLParsesAllSupportedFields(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"

[logging]
level = "debug"
file = "/tmp/mediahub.log"
max_size_mb = 42
max_files = 9
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, "/srv/mediahub", cfg.Storage.DataDir)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/tmp/mediahub.log", cfg.Logging.File)
	require.Equal(t, 42, cfg.Logging.MaxSizeMB)
	require.Equal(t, 9, cfg.Logging.MaxFiles)
}

func TestLoadConfigDataDirDefaultsToHomeOverride(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := Load(LoadOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Env: map[string]string{
			"MEDIAHUB_HOME": home,
		},
	})
	require.NoError(t, err)
	require.Equal(t, home, cfg.Storage.DataDir)
}

func TestLoadConfigDerivesLogFileUnderDataDir(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/srv/mediahub", "logs", "mediahub.log"), cfg.Logging.File)
}

func TestLoadConfigExplicitLogFileIsKept(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"

[logging]
file = "/var/log/mediahub.log"
`)

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, "/var/log/mediahub.log", cfg.Logging.File)
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := Load(LoadOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Env: map[string]string{
			"MEDIAHUB_HOME": home,
		},
	})
	require.NoError(t, err)
	require.Equal(t, defaultLogLevel, cfg.Logging.Level)
	require.Equal(t, defaultLogMaxSizeMB, cfg.Logging.MaxSizeMB)
	require.Equal(t, defaultLogMaxFiles, cfg.Logging.MaxFiles)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/from-env-path"
`)

	cfg, err := Load(LoadOptions{
		Env: map[string]string{
			"MEDIAHUB_CONFIG_PATH": cfgPath,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "/srv/from-env-path", cfg.Storage.DataDir)
}

func TestLoadConfigValidationRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"

[logging]
level = "verbose"
`)

	_, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigValidationRejectsRotationLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "zero-max-size", body: "max_size_mb = 0"},
		{name: "zero-max-files", body: "max_files = 0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"

[logging]
`+tt.body+`
`)
			_, err := Load(LoadOptions{
				ConfigPath: cfgPath,
			})
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `[storage`)

	_, err := Load(LoadOptions{
		ConfigPath: cfgPath,
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigBadEnvIntegerIsRejected(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfigFile(t, `
[storage]
data_dir = "/srv/mediahub"
`)

	_, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		Env: map[string]string{
			"MEDIAHUB_LOG_MAX_FILES": "lots",
		},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}
