// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package io implements a handful of formatted-printing and file
// helpers used throughout the module, in the style of the teacher
// library's own io package (colored console output built on raw ANSI
// escapes rather than a third-party terminal-color library -- the
// retrieval pack contains no grounded alternative to adopt here).
package io

import (
	"fmt"
	"os"
)

// Sf is shorthand for fmt.Sprintf.
func Sf(msg string, args ...interface{}) string {
	return fmt.Sprintf(msg, args...)
}

// Pf prints a formatted message to stdout.
func Pf(msg string, args ...interface{}) {
	fmt.Printf(msg, args...)
}

const (
	colReset  = "\033[0m"
	colYellow = "\033[33m"
	colOrange = "\033[38;5;208m"
	colMagen  = "\033[35m"
	colRed    = "\033[31m"
	colWhite  = "\033[37m"
)

func colored(col, msg string, args []interface{}) {
	fmt.Printf(col+msg+colReset, args...)
}

// PfYel prints a formatted message to stdout in yellow.
func PfYel(msg string, args ...interface{}) { colored(colYellow, msg, args) }

// Pforan prints a formatted message to stdout in orange.
func Pforan(msg string, args ...interface{}) { colored(colOrange, msg, args) }

// PfMag prints a formatted message to stdout in magenta.
func PfMag(msg string, args ...interface{}) { colored(colMagen, msg, args) }

// PfWhite prints a formatted message to stdout in white.
func PfWhite(msg string, args ...interface{}) { colored(colWhite, msg, args) }

// Pfred prints a formatted message to stderr in red.
func Pfred(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, colRed+msg+colReset, args...)
}

// PfRed prints a formatted message to stdout in red.
func PfRed(msg string, args ...interface{}) { colored(colRed, msg, args) }

// ReadFile reads an entire file into a string.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile writes a string to a file, creating or truncating it.
func WriteFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}

// FnExt returns the extension of a file name, including the leading dot.
func FnExt(fn string) string {
	for i := len(fn) - 1; i >= 0 && fn[i] != '/'; i-- {
		if fn[i] == '.' {
			return fn[i:]
		}
	}
	return ""
}
