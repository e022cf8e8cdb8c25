// Package textutil provides small text helpers for filename and path
// segment construction.
package textutil
