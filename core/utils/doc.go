// Package utils provides common utility functions for the sync engine.
// It includes loose type conversion for provider payload fields, whose JSON
// numbers, strings and nulls arrive with inconsistent types, and the
// normalized value comparison used for no-op update detection.
package utils
