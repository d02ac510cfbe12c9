package saudapakka

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const GenericErrorMessage = "Something went wrong. Please try again."

// ErrorBody is the union of failure shapes the API may return:
// {"message": ...}, {"detail": ...}, {"error": ...} or a field-keyed map of message lists.
type ErrorBody struct {
	Message string
	Detail  string
	Err     string
	Fields  map[string][]string
}

// DecodeErrorBody never fails: anything that is not a JSON object yields an empty body.
func DecodeErrorBody(raw []byte) ErrorBody {
	var body ErrorBody

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return body
	}

	for key, value := range generic {
		switch key {
		case "message":
			body.Message = decodeText(value)
			continue
		case "detail":
			body.Detail = decodeText(value)
			continue
		case "error":
			body.Err = decodeText(value)
			continue
		}

		msgs := decodeMessages(value)
		if len(msgs) == 0 {
			continue
		}
		if body.Fields == nil {
			body.Fields = map[string][]string{}
		}
		body.Fields[key] = msgs
	}

	return body
}

// Text picks the best human-readable message, or fallback when none is present.
func (b ErrorBody) Text(fallback string) string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	case b.Err != "":
		return b.Err
	}

	if len(b.Fields) > 0 {
		keys := make([]string, 0, len(b.Fields))
		for k := range b.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := []string{}
		for _, k := range keys {
			lines = append(lines, b.Fields[k]...)
		}
		return strings.Join(lines, "\n")
	}

	return fallback
}

func decodeText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	msgs := decodeMessages(raw)
	return strings.Join(msgs, "\n")
}

func decodeMessages(raw json.RawMessage) []string {
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			switch v := item.(type) {
			case string:
				msgs = append(msgs, v)
			case nil:
			default:
				msgs = append(msgs, fmt.Sprint(v))
			}
		}
		return msgs
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		keys := make([]string, 0, len(nested))
		for k := range nested {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := []string{}
		for _, k := range keys {
			msgs = append(msgs, decodeMessages(nested[k])...)
		}
		return msgs
	}

	return nil
}

func MandatePath(id string) string {
	return "/api/mandates/" + id + "/"
}

func MandateActionURL(id string) string {
	return "/mandates/" + id
}
