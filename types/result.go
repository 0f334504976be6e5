/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "context"

// Result carries the outcome of an asynchronous call on a channel.
type Result[V any] struct {
	Value V
	Err   error
}

// Go runs fn in a new goroutine. The returned channel receives exactly one
// Result and is then closed.
func Go[V any](fn func() (V, error)) <-chan Result[V] {
	ch := make(chan Result[V], 1)
	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result[V]{Value: v, Err: err}
	}()
	return ch
}

// GoErr is Go for calls that only return an error.
func GoErr(fn func() error) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		ch <- fn()
	}()
	return ch
}

// Await blocks until ch delivers or ctx is done. Abandoning the wait does not
// stop the underlying call.
func Await[V any](ctx context.Context, ch <-chan Result[V]) (V, error) {
	select {
	case r, ok := <-ch:
		if !ok {
			var zero V
			return zero, context.Canceled
		}
		return r.Value, r.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// AwaitErr is Await for error channels.
func AwaitErr(ctx context.Context, ch <-chan error) error {
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
