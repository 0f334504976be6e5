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

package repository

import (
	"errors"
	"fmt"

	"github.com/tomoncle/repokit/database"
)

var (
	// ErrInvalidArgument reports a missing or out-of-range input. It is
	// returned before any I/O and nothing is staged.
	ErrInvalidArgument = errors.New("repository: invalid argument")

	// ErrMultipleResults reports that a single-result query matched more
	// than one row.
	ErrMultipleResults = errors.New("repository: multiple results")

	// ErrClosed reports use of a repository after its Factory was closed.
	ErrClosed = database.ErrClosed
)

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsStorageFailure reports whether err came from the database rather than
// from argument checks or a closed factory.
func IsStorageFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrInvalidArgument) &&
		!errors.Is(err, ErrMultipleResults) &&
		!errors.Is(err, ErrClosed)
}
