package frontmatter

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
)

// Decode parses a raw metadata block as TOML into v. The returned MetaData
// reports which keys were present so callers can enforce required fields.
func Decode(block string, v any) (toml.MetaData, error) {
	meta, err := toml.Decode(block, v)
	if err != nil {
		return meta, ferrors.WrapError(err, ferrors.CategoryMetadataDecode, "decode metadata block").Build()
	}
	return meta, nil
}

// Encode serializes v as a TOML metadata block (without delimiters).
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryMetadataEncode, "encode metadata block").Build()
	}
	return strings.TrimSpace(buf.String()), nil
}
