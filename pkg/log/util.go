package log

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const redacted = "[REDACTED]"

// sensitiveKeys are never written in clear, whatever their value.
var sensitiveKeys = []string{"apikey", "api-key", "api_key", "password", "secret", "token", "authorization"}

// toFields converts logr-style key/value arguments to zap fields.
// Bare errors and zap.Field values are accepted anywhere in the list; a trailing
// unpaired value is kept under a positional key.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		name, ok := key.(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("invalid_key_%d", i/2), map[string]any{
				"key":   key,
				"value": val,
			}))
			continue
		}
		fields = append(fields, field(name, val))
	}

	return fields
}

func field(key string, val any) zap.Field {
	if isSensitive(key) {
		return zap.String(key, redacted)
	}

	switch v := val.(type) {
	case time.Duration, time.Time:
		return zap.Any(key, v)
	case error:
		return zap.NamedError(key, v)
	case fmt.Stringer:
		// zap.Stringer defers the call; nil pointers behind the interface are
		// handled by zap.
		return zap.Stringer(key, v)
	default:
		return zap.Any(key, v)
	}
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
