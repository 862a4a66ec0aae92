package envstruct

import (
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
)

var (
	ErrEnvNotSet    = errors.NewSentinel("environment variable not set")
	ErrInvalidValue = errors.NewSentinel("v must be a pointer to a struct")
	ErrParse        = errors.NewSentinel("environment variable has invalid format")
)

var durationType = reflect.TypeOf(time.Duration(0))

// Populate populates the fields of the pointer to struct v with values from the environment.
//
// lookupEnv is used to look up environment variables. It has the same signature as [os.LookupEnv].
// Fields in the struct v must be tagged with `env:"ENV_VAR"` where ENV_VAR is the name of the environment variable.
// If no environment variable matching ENV_VAR is provided, the field must be tagged with default value
// `envDefault:"value"` or else ErrEnvNotSet is returned.
//
// Supported field kinds are string, bool, int, float64 and [time.Duration].
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return errors.Wrap(ErrInvalidValue, "not pointer", slog.Any("v", v))
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return errors.Wrap(ErrInvalidValue, "not struct", slog.Any("v", v))
	}

	refType := ref.Type()

	var errorList []error

	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}
		if !refField.CanSet() {
			errorList = append(errorList, errors.Wrap(ErrInvalidValue, "cannot set field",
				slog.String("fieldName", refTypeField.Name)))
			continue
		}

		val, err := envLookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}
		if err = setField(refField, val); err != nil {
			errorList = append(errorList, errors.Wrap(err, "set field",
				slog.String("envVarName", envVarName),
				slog.String("fieldType", refField.Type().String()),
				slog.String("fieldName", refTypeField.Name),
			))
		}
	}

	if len(errorList) != 0 {
		// Join the errors into a single error.
		return errors.Join(errorList...)
	}

	return nil
}

func setField(field reflect.Value, val string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.Wrap(ErrParse, err.Error())
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() { //nolint:exhaustive // unsupported kinds handled by default.
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return errors.Wrap(ErrParse, err.Error())
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return errors.Wrap(ErrParse, err.Error())
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return errors.Wrap(ErrParse, err.Error())
		}
		field.SetFloat(f)
	default:
		return errors.Wrap(ErrInvalidValue, "unsupported field type")
	}
	return nil
}

func envLookupWithFallback(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	envVarValue, ok := lookupEnv(envVarName)
	if !ok {
		envVarValue, ok = tag.Lookup("envDefault")
		if !ok {
			return "", errors.Wrap(ErrEnvNotSet, "environment variable not set", slog.String("envVarName", envVarName))
		}
	}
	return envVarValue, nil
}
