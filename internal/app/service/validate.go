package service

import (
	"encoding/json"
	"fmt"

	"wlog/internal/common"

	"github.com/google/uuid"
)

// Patch bodies arrive as raw key/value pairs so immutable fields can be
// rejected by name before anything is applied.
type PatchUpdates map[string]json.RawMessage

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// rejectKeys fails the patch if any immutable field is present at all,
// whatever its value.
func rejectKeys(updates PatchUpdates, keys ...string) error {
	for _, key := range keys {
		if _, present := updates[key]; present {
			return fmt.Errorf("field %q cannot be patched: %w", key, common.ErrBadRequest)
		}
	}
	return nil
}

func stringField(updates PatchUpdates, key string) (string, bool, error) {
	raw, present := updates[key]
	if !present {
		return "", false, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("field %q must be a string: %w", key, common.ErrBadRequest)
	}
	return value, true, nil
}

func intField(updates PatchUpdates, key string) (int, bool, error) {
	raw, present := updates[key]
	if !present {
		return 0, false, nil
	}
	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, false, fmt.Errorf("field %q must be an integer: %w", key, common.ErrBadRequest)
	}
	return value, true, nil
}

func floatField(updates PatchUpdates, key string) (float64, bool, error) {
	raw, present := updates[key]
	if !present {
		return 0, false, nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, false, fmt.Errorf("field %q must be a number: %w", key, common.ErrBadRequest)
	}
	return value, true, nil
}
