package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/comunidades/groups-api/internal/core/ports"
)

// toGroupInput maps a decoded JSON object onto the partial payload. Unknown
// keys, including server-maintained ones like id or member_count, are ignored.
// Values of the wrong JSON type are marked, not rejected.
func toGroupInput(raw map[string]json.RawMessage) ports.GroupInput {
	return ports.GroupInput{
		Name:          stringField(raw, "name"),
		Description:   stringField(raw, "description"),
		Category:      stringField(raw, "category"),
		Visibility:    stringField(raw, "visibility"),
		JoinPolicy:    stringField(raw, "join_policy"),
		MaxMembers:    intField(raw, "max_members"),
		LocationCity:  stringField(raw, "location_city"),
		LocationState: stringField(raw, "location_state"),
	}
}

func stringField(raw map[string]json.RawMessage, key string) ports.Field[string] {
	return decodeField[string](raw, key)
}

func intField(raw map[string]json.RawMessage, key string) ports.Field[int] {
	return decodeField[int](raw, key)
}

func decodeField[T any](raw map[string]json.RawMessage, key string) ports.Field[T] {
	v, ok := raw[key]
	if !ok {
		return ports.Field[T]{}
	}
	if isNull(v) {
		return ports.Null[T]()
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return ports.Mistyped[T]()
	}
	return ports.Set(out)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// queryInt reads an optional positive-integer query parameter. A value that
// is not an integer is forwarded as null so pagination validation rejects it.
func queryInt(value string) ports.Field[int] {
	if value == "" {
		return ports.Field[int]{}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return ports.Null[int]()
	}
	return ports.Set(n)
}
