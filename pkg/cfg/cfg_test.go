package cfg

import (
	"flag"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Server struct {
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

type TLS struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Data struct {
	Verbose bool   `yaml:"verbose"`
	Server  Server `yaml:"server"`
	TLS     TLS    `yaml:"tls"`
}

func (d *Data) RegisterFlags(f *flag.FlagSet) {
	f.BoolVar(&d.Verbose, "verbose", false, "")
	f.IntVar(&d.Server.Port, "server.port", 80, "")
	f.DurationVar(&d.Server.Timeout, "server.timeout", 60*time.Second, "")
	f.StringVar(&d.TLS.Cert, "tls.cert", "CERT", "")
	f.StringVar(&d.TLS.Key, "tls.key", "KEY", "")
}

func memFile(t *testing.T, name, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	return fs
}

func TestDefaults(t *testing.T) {
	var d Data
	require.NoError(t, Unmarshal(&d, Defaults()))
	assert.Equal(t, Data{
		Server: Server{
			Port:    80,
			Timeout: 60 * time.Second,
		},
		TLS: TLS{
			Cert: "CERT",
			Key:  "KEY",
		},
	}, d)
}

func TestDefaults_NotRegisterer(t *testing.T) {
	var s struct{}
	err := Unmarshal(&s, Defaults())
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not register flags")
}

func TestParse(t *testing.T) {
	fs := memFile(t, "/etc/config.yaml", `
server:
  port: 2000
  timeout: 60h
tls:
  key: YAML
`)

	var c Data
	err := Unmarshal(&c, Defaults(), YAMLFile(fs, "/etc/config.yaml", false))
	require.NoError(t, err)

	require.Equal(t, Data{
		Server: Server{
			Port:    2000,
			Timeout: 60 * time.Hour,
		},
		TLS: TLS{
			Cert: "CERT",
			Key:  "YAML",
		},
	}, c)
}

func TestYAMLFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		d := Data{Verbose: true}
		require.NoError(t, Unmarshal(&d, YAMLFile(afero.NewMemMapFs(), "", false)))
		require.Equal(t, Data{Verbose: true}, d)
	})

	t.Run("empty file", func(t *testing.T) {
		d := Data{Verbose: true}
		require.NoError(t, Unmarshal(&d, YAMLFile(memFile(t, "c.yaml", ""), "c.yaml", false)))
		require.Equal(t, Data{Verbose: true}, d)
	})

	t.Run("missing file", func(t *testing.T) {
		var d Data
		err := Unmarshal(&d, YAMLFile(afero.NewMemMapFs(), "nope.yaml", false))
		require.Error(t, err)
		require.Contains(t, err.Error(), "reading config file")
	})

	t.Run("unknown field", func(t *testing.T) {
		var d Data
		err := Unmarshal(&d, YAMLFile(memFile(t, "c.yaml", "servr:\n  port: 1\n"), "c.yaml", false))
		require.Error(t, err)
		require.Contains(t, err.Error(), "parsing config file c.yaml")
	})

	t.Run("expand env", func(t *testing.T) {
		t.Setenv("TREEDUMP_TEST_KEY", "FROM_ENV")
		fs := memFile(t, "c.yaml", "tls:\n  key: ${TREEDUMP_TEST_KEY}\n  cert: ${TREEDUMP_TEST_UNSET:-fallback}\n")

		var d Data
		require.NoError(t, Unmarshal(&d, YAMLFile(fs, "c.yaml", true)))
		require.Equal(t, TLS{Cert: "fallback", Key: "FROM_ENV"}, d.TLS)

		// Without expansion the reference is taken literally.
		d = Data{}
		require.NoError(t, Unmarshal(&d, YAMLFile(fs, "c.yaml", false)))
		require.Equal(t, "${TREEDUMP_TEST_KEY}", d.TLS.Key)
	})
}

func TestUnmarshal_NoSources(t *testing.T) {
	require.Panics(t, func() {
		_ = Unmarshal(&Data{})
	})
}

func TestFileFromArgs(t *testing.T) {
	for _, tc := range []struct {
		args     []string
		expected string
	}{
		{nil, ""},
		{[]string{"dump", "a.go"}, ""},
		{[]string{"--config.file", "a.yaml", "dump"}, "a.yaml"},
		{[]string{"-config.file=b.yaml"}, "b.yaml"},
		{[]string{"--config.file=a.yaml", "dump", "--config.file=c.yaml"}, "c.yaml"},
		{[]string{"dump", "--", "--config.file=a.yaml"}, ""},
		{[]string{"---config.file=a.yaml"}, ""},
		{[]string{"--config.file"}, ""},
		{[]string{"--config.files=a.yaml"}, ""},
	} {
		require.Equal(t, tc.expected, FileFromArgs(tc.args, "config.file"), "%v", tc.args)
	}
}

func TestBoolFromArgs(t *testing.T) {
	for _, tc := range []struct {
		args     []string
		expected bool
	}{
		{nil, false},
		{[]string{"--config.expand-env", "demo"}, true},
		{[]string{"-config.expand-env=true"}, true},
		{[]string{"--config.expand-env=false"}, false},
		{[]string{"--config.expand-env=maybe"}, false},
		{[]string{"--config.expand-env", "--no-config.expand-env"}, false},
		{[]string{"--no-config.expand-env", "--config.expand-env"}, true},
		{[]string{"--", "--config.expand-env"}, false},
	} {
		require.Equal(t, tc.expected, BoolFromArgs(tc.args, "config.expand-env"), "%v", tc.args)
	}
}
