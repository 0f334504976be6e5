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

// Package repokit wires repositories to a database for one unit of work.
package repokit

import (
	"context"
	"errors"

	"github.com/tomoncle/repokit/database"
	"github.com/tomoncle/repokit/repository"
)

// Use opens a Factory for cfg, runs fn and closes the factory on every exit
// path. A close error is joined with the one returned by fn.
func Use(ctx context.Context, cfg *database.Config, fn func(f *repository.Factory) error) (err error) {
	f, err := repository.NewFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return fn(f)
}
