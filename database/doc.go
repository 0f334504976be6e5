// Package database provides connection management, configuration, logging,
// query hooks, storage error classification, table creation for registered
// models, and the Session unit of work that repositories stage changes into.
package database
