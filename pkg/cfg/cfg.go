// Package cfg assembles configuration structs from a chain of sources: the
// defaults of their flags, a YAML file and finally the command line.
package cfg

import (
	"bytes"
	"flag"
	"io"
	"strconv"
	"strings"

	"github.com/drone/envsubst"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Source is a generic configuration source. This function may do whatever is
// required to obtain the configuration. It is passed a pointer to the
// destination, which may already contain data from previous sources.
type Source func(interface{}) error

// Registerer is a configuration struct that can describe itself as flags.
type Registerer interface {
	RegisterFlags(*flag.FlagSet)
}

// Unmarshal merges the values of the various configuration sources and sets
// them on dst.
func Unmarshal(dst interface{}, sources ...Source) error {
	if len(sources) == 0 {
		panic("No sources supplied to cfg.Unmarshal(). This is most likely a programming issue and should never happen. Check the code!")
	}
	for _, source := range sources {
		if err := source(dst); err != nil {
			return errors.Wrap(err, "sourcing")
		}
	}
	return nil
}

// Defaults sets every field of dst to the default of the flag it registers.
// dst must implement [Registerer].
func Defaults() Source {
	return func(dst interface{}) error {
		r, ok := dst.(Registerer)
		if !ok {
			return errors.Errorf("%T does not register flags", dst)
		}
		// Registering a flag stores its default in the bound field.
		r.RegisterFlags(flag.NewFlagSet("defaults", flag.ContinueOnError))
		return nil
	}
}

// YAMLFile decodes the YAML file at path into dst. Unknown keys are
// rejected. An empty path leaves dst unchanged. With expandEnv, references
// like ${VAR} or ${VAR:-default} are replaced from the environment before
// decoding.
func YAMLFile(fs afero.Fs, path string, expandEnv bool) Source {
	return func(dst interface{}) error {
		if path == "" {
			return nil
		}
		buf, err := afero.ReadFile(fs, path)
		if err != nil {
			return errors.Wrap(err, "reading config file")
		}
		if expandEnv {
			s, err := envsubst.EvalEnv(string(buf))
			if err != nil {
				return errors.Wrapf(err, "expanding environment in %s", path)
			}
			buf = []byte(s)
		}
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil && err != io.EOF {
			return errors.Wrapf(err, "parsing config file %s", path)
		}
		return nil
	}
}

// FileFromArgs returns the value given to the flag name in args, accepting
// "-name value", "--name value" and the "=" forms. The last occurrence wins.
// Scanning stops at "--".
func FileFromArgs(args []string, name string) string {
	var value string
	for i := 0; i < len(args); i++ {
		trimmed, ok := flagArg(args[i])
		if args[i] == "--" {
			break
		}
		if !ok {
			continue
		}
		switch {
		case trimmed == name && i+1 < len(args):
			i++
			value = args[i]
		case strings.HasPrefix(trimmed, name+"="):
			value = strings.TrimPrefix(trimmed, name+"=")
		}
	}
	return value
}

// BoolFromArgs reports whether the boolean flag name is set in args, as
// "-name", "--name" or "--name=<bool>". "--no-name" clears it. The last
// occurrence wins.
func BoolFromArgs(args []string, name string) bool {
	var value bool
	for _, arg := range args {
		trimmed, ok := flagArg(arg)
		if arg == "--" {
			break
		}
		if !ok {
			continue
		}
		switch {
		case trimmed == name:
			value = true
		case trimmed == "no-"+name:
			value = false
		case strings.HasPrefix(trimmed, name+"="):
			if b, err := strconv.ParseBool(strings.TrimPrefix(trimmed, name+"=")); err == nil {
				value = b
			}
		}
	}
	return value
}

// flagArg strips the one or two leading dashes of a flag argument.
func flagArg(arg string) (string, bool) {
	trimmed := strings.TrimLeft(arg, "-")
	dashes := len(arg) - len(trimmed)
	return trimmed, dashes == 1 || dashes == 2
}
