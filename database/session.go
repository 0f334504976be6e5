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

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeUpdate
	ChangeDelete
	ChangeUpsert
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeUpsert:
		return "upsert"
	default:
		return "unknown"
	}
}

// Change is one staged mutation. Apply runs inside the commit transaction.
type Change struct {
	Kind  ChangeKind
	Model string
	Rows  int
	Apply func(ctx context.Context, db bun.IDB) error
}

// Session is a unit of work over one bun DB: mutations are staged in memory
// and written by Commit in a single transaction, in staging order.
//
// A Session is meant for one logical request. Staging is guarded so
// asynchronous calls do not race, but callers must not share a Session
// between concurrent units of work.
type Session struct {
	id      string
	db      *bun.DB
	logger  Logger
	onClose func() error

	commitMu sync.Mutex
	mu       sync.Mutex
	pending  []Change
	gen      uint64 // bumped whenever pending is dropped
	closed   bool
}

// NewSession opens a session over db. onClose, if set, runs once when the
// session is closed and its error is returned from Close.
func NewSession(db *bun.DB, logger Logger, onClose func() error) *Session {
	if logger == nil {
		logger = GetLogger()
	}
	return &Session{
		id:      uuid.NewString(),
		db:      db,
		logger:  logger,
		onClose: onClose,
	}
}

func (s *Session) ID() string { return s.id }

// DB returns the database for reads, or ErrClosed.
func (s *Session) DB() (*bun.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.db, nil
}

// Stage appends changes atomically: either all are staged or none.
func (s *Session) Stage(changes ...Change) error {
	for _, c := range changes {
		if c.Apply == nil {
			return fmt.Errorf("change %s on %s has no apply function", c.Kind, c.Model)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.pending = append(s.pending, changes...)
	return nil
}

// Pending returns the number of staged changes.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Commit writes every change staged before the call in one transaction.
// On failure the transaction is rolled back, the changes stay staged and
// the storage error is returned as is.
func (s *Session) Commit(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	batch := make([]Change, len(s.pending))
	copy(batch, s.pending)
	gen := s.gen
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, c := range batch {
			if err := c.Apply(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Unit of work commit failed", "session", s.id, "changes", len(batch), "error", err)
		return err
	}

	s.mu.Lock()
	// Changes staged while the transaction ran stay pending.
	if s.gen == gen {
		s.pending = append([]Change(nil), s.pending[len(batch):]...)
	}
	s.mu.Unlock()

	s.logger.Debug("Unit of work committed", "session", s.id, "changes", len(batch), "rows", countRows(batch))
	return nil
}

// Discard drops all staged changes.
func (s *Session) Discard() {
	s.mu.Lock()
	s.pending = nil
	s.gen++
	s.mu.Unlock()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close waits for a running commit, discards staged changes and runs
// onClose. Only the first call has an effect; later calls return nil.
func (s *Session) Close() error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dropped := len(s.pending)
	s.pending = nil
	s.gen++
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Warn("Session closed with uncommitted changes", "session", s.id, "changes", dropped)
	}
	if s.onClose != nil {
		return s.onClose()
	}
	return nil
}

func countRows(changes []Change) int {
	n := 0
	for _, c := range changes {
		n += c.Rows
	}
	return n
}
