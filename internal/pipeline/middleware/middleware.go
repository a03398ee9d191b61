// Package middleware define middlewares for pipes.
package middleware

import "github.com/timeless-lut/tjlut/internal/context"

// Action is a function that takes a context and returns an error.
// It is used on Pipers, although they are not aware of this generalization.
type Action func(ctx *context.Context) error
