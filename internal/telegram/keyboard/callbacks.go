package keyboard

import (
	"fmt"
	"strings"
)

const (
	ActionScheme = "scheme"
	ActionField  = "field"
	ActionBack   = "back"
)

// Telegram rejects callback data longer than this
const maxCallbackBytes = 64

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// FieldValue packs a scheme slug and a field into one callback value
func FieldValue(schemeSlug, field string) string {
	return schemeSlug + "|" + field
}

// SplitFieldValue reverses FieldValue
func SplitFieldValue(value string) (schemeSlug, field string, err error) {
	slug, f, ok := strings.Cut(value, "|")
	if !ok || slug == "" || f == "" {
		return "", "", fmt.Errorf("invalid field callback value: %s", value)
	}
	return slug, f, nil
}
