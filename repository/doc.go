// Package repository provides a generic unit-of-work repository built on Bun
// and the Factory that owns the session repositories share.
//
// Add, AddRange, Update, Remove, RemoveRange and Upsert only stage changes;
// Save writes everything staged through any repository of the same Factory
// in one transaction. Every operation has an Async twin that runs it once in
// a goroutine and reports through a channel. A failed Save keeps the staged
// changes so it can be retried; call Discard to drop them instead.
//
// A Factory and its repositories form one unit of work. They are not meant
// to be shared between concurrent requests: create a Factory per request or
// transaction and Close it when done.
package repository
