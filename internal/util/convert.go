// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the docent application.
package util

import "strconv"

// IntToString converts an int to string.
// Uses strconv.Itoa for optimal performance.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// Int64ToString converts an int64 to string.
// Uses strconv.FormatInt for optimal performance.
func Int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FloatToString converts a float64 to string with 2 decimal places.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FloatToStringPrec converts a float64 to string with specified decimal precision.
func FloatToStringPrec(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// FormatByteSize renders a byte count as a human-readable size.
// Sizes below 1 KB are shown in bytes, then KB and MB with one decimal.
func FormatByteSize(n int64) string {
	switch {
	case n < 1024:
		return Int64ToString(n) + " B"
	case n < 1024*1024:
		return FloatToStringPrec(float64(n)/1024, 1) + " KB"
	default:
		return FloatToStringPrec(float64(n)/(1024*1024), 1) + " MB"
	}
}
