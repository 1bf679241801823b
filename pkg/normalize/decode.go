package normalize

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// decode maps a generic JSON value onto out using the json field tags.
func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(timeHook, nullStringHook),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

var timeType = reflect.TypeOf(time.Time{})

// timeHook accepts RFC 3339 strings and epoch milliseconds.
// Unparseable values decode to the zero time rather than failing the entry.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, nil
		}
		return t, nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case int:
		return time.UnixMilli(int64(v)).UTC(), nil
	case nil:
		return time.Time{}, nil
	}
	return data, nil
}

// nullStringHook turns empty optional strings into absent ones.
func nullStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Pointer && to.Elem().Kind() == reflect.String {
		if s, ok := data.(string); ok && s == "" {
			return nil, nil
		}
	}
	return data, nil
}
