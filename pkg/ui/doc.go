// Package ui renders console output: a banner, status lines and per-page harvest progress.
package ui
