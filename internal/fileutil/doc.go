// Package fileutil writes export files atomically with integrity checks.
package fileutil
