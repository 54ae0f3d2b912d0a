package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is only returned by required lookups.
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)

// Result is the outcome of a mutation. Changed is false when the target was already in
// the requested state, which is still a success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Changed bool   `json:"changed"`
}

func Done(msg string) Result {
	return Result{Success: true, Changed: true, Message: msg}
}

func NoOp(msg string) Result {
	return Result{Success: true, Message: msg}
}

type RecipeResult struct {
	Result
	Recipe *Recipe `json:"recipe,omitempty"`
}

type PostResult struct {
	Result
	Post *Post `json:"post,omitempty"`
}

type LikeResult struct {
	Result
	Like *Like `json:"like,omitempty"`
}

type CommentResult struct {
	Result
	Comment *Comment `json:"comment,omitempty"`
}

// Patch is a shallow merge document keyed by JSON field name.
type Patch map[string]any

// merge replaces top-level fields of existing with those in p and pins the id.
func merge[T any](existing T, p Patch, id string) (T, error) {
	var out T
	base, err := json.Marshal(existing)
	if err != nil {
		return out, fmt.Errorf("failed to marshal record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return out, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	for k, v := range p {
		raw, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("failed to marshal patch field %s: %w", k, err)
		}
		fields[k] = raw
	}
	idRaw, _ := json.Marshal(id)
	fields["id"] = idRaw

	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("failed to marshal merged record: %w", err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("patch does not fit record: %w", errors.Join(ErrInvalid, err))
	}
	return out, nil
}
