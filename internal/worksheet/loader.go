package worksheet

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/models"
)

// EnvPrefix prefixes the environment variables overriding worksheet content. A double underscore separates nested
// keys, e.g., REAKSI_WORKSHEET_AREA__WIDTH sets area.width.
const EnvPrefix = "REAKSI_WORKSHEET_"

var ErrInvalid = errors.NewSentinel("invalid worksheet")

// Load builds the worksheet by layering, from low to high precedence:
//  1. the built-in defaults ([Default]),
//  2. the YAML file at path if path is not empty,
//  3. environment variables prefixed with [EnvPrefix].
func Load(path string) (*Content, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "load worksheet file", slog.String("path", path))
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "load worksheet environment")
	}

	content := Default()
	// Lists are replaced as a whole instead of merged element by element.
	if k.Exists("questions") {
		content.Questions = nil
	}
	if k.Exists("box_labels") {
		content.BoxLabels = nil
	}
	if err := k.UnmarshalWithConf("", content, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal worksheet")
	}

	if err := Validate(content); err != nil {
		return nil, err
	}
	return content, nil
}

// Validate checks that every field is present and that there is exactly one question per answer key.
func Validate(content *Content) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(content); err != nil {
		return errors.Wrap(ErrInvalid, "validate worksheet", slog.String("cause", err.Error()))
	}
	keys := make([]string, 0, len(content.Questions))
	for _, q := range content.Questions {
		keys = append(keys, q.Key)
	}
	sorted := slices.Sorted(slices.Values(keys))
	want := slices.Sorted(slices.Values(models.AnswerKeys))
	if !slices.Equal(sorted, want) {
		return errors.Wrap(ErrInvalid, "question keys must match the answer keys",
			slog.Any("keys", keys), slog.Any("want", models.AnswerKeys))
	}
	return nil
}
