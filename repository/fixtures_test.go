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

package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/repokit/database"
	"github.com/tomoncle/repokit/repository"
	"github.com/tomoncle/repokit/types"
	"github.com/uptrace/bun"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`
	types.BaseEntity

	Name   string   `bun:"name,notnull"`
	Email  string   `bun:"email,unique"`
	Orders []*Order `bun:"rel:has-many,join:id=customer_id"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`
	types.BaseEntity

	CustomerID int64     `bun:"customer_id,notnull"`
	Item       string    `bun:"item"`
	Customer   *Customer `bun:"rel:belongs-to,join:customer_id=id"`
}

func newCustomer(name, email string) *Customer {
	return &Customer{BaseEntity: types.NewBaseEntity(), Name: name, Email: email}
}

func sqliteConfig(t *testing.T) *database.Config {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "repository.db")
	return cfg
}

func newTestFactory(t *testing.T) *repository.Factory {
	t.Helper()
	ctx := context.Background()
	f, err := repository.NewFactory(ctx, sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.CreateTables(ctx, (*Customer)(nil), (*Order)(nil)))
	return f
}

// seedCustomers saves n customers named customer-00.. and returns them.
func seedCustomers(t *testing.T, repo repository.Repository[Customer], n int) []*Customer {
	t.Helper()
	ctx := context.Background()
	customers := make([]*Customer, 0, n)
	for i := 0; i < n; i++ {
		customers = append(customers, newCustomer(fmt.Sprintf("customer-%02d", i), fmt.Sprintf("c%02d@example.com", i)))
	}
	require.NoError(t, repo.AddRange(ctx, customers))
	require.NoError(t, repo.Save(ctx))
	return customers
}
