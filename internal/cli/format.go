package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zoobzio/skein"
	"github.com/zoobzio/skein/json"
	"github.com/zoobzio/skein/yaml"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// codecFor returns the tree codec for a format name. indent only applies
// to JSON.
func codecFor(format, indent string) (skein.Codec, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		if indent != "" {
			return json.NewIndent(indent), nil
		}
		return json.New(), nil
	case formatYAML, "yml":
		return yaml.New(), nil
	}
	return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
}

// detectFormat picks a format from a file extension, falling back to
// fallback for stdin and unknown extensions.
func detectFormat(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	return fallback
}
