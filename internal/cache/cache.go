// Package cache is the key-value layer for state the app keeps between runs.
package cache

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound      = errors.New("cache entry not found")
	ErrAlreadyExists = errors.New("cache entry already exists")
)

type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key, value string, opts PutOptions) error
	Delete(ctx context.Context, key string) error
}

type PutCondition int

const (
	PutUnconditional PutCondition = iota
	// PutIfNoneMatch fails with ErrAlreadyExists when the key is taken.
	PutIfNoneMatch
)

type PutOptions struct {
	Condition PutCondition
}

func Unconditional() PutOptions { return PutOptions{Condition: PutUnconditional} }

func IfNoneMatch() PutOptions { return PutOptions{Condition: PutIfNoneMatch} }

// GetString reads a whole entry.
func GetString(ctx context.Context, c Cache, key string) (string, error) {
	rc, err := c.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rc.Close()
	}()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
