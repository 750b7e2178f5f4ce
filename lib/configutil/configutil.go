package configutil

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override of a config file,
// "dir/scrappey.json5" becomes "dir/scrappey.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readFile[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

// ReadConfig reads a json5 config file and merges it with its local override
// (see LocalPath), fields set in the local file win. fs.ErrNotExist is
// returned when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	out, found, err := readFile[T](name)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	override, foundLocal, err := readFile[T](localPath)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localPath)
	}

	if !found && !foundLocal {
		return out, fs.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it goes up the filesystem from the cwd
// until it finds a directory containing the config. It also returns the path
// that was read.
func ReadRecursively[T any](name string) (T, string, error) {
	var empty T

	current, err := os.Getwd()
	if err != nil {
		return empty, "", err
	}

	for {
		path := filepath.Join(current, name)
		config, err := ReadConfig[T](path)
		if err == nil {
			return config, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return empty, "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return empty, "", fs.ErrNotExist
		}
		current = parent
	}
}
