// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package util

import "strings"

// QuoteArgForShell quotes an argument for safe use in a POSIX shell command.
// It uses single quotes and escapes any internal single quotes.
// Special handling for "~/" prefix allows shell tilde expansion (relies on remote shell behavior).
func QuoteArgForShell(arg string) string {
	// Handle ~/ prefix separately to allow shell expansion. This relies on the
	// remote shell correctly expanding ~ even when the rest is quoted.
	if strings.HasPrefix(arg, "~/") {
		quotedPart := strings.ReplaceAll(arg[2:], "'", `'\''`)
		return `~/'` + quotedPart + `'`
	}

	quotedArg := strings.ReplaceAll(arg, "'", `'\''`)
	return `'` + quotedArg + `'`
}

// JoinForShell joins a command and its arguments into a single POSIX shell
// command string. The first element is assumed to be the executable and is
// not quoted; every following argument is quoted.
func JoinForShell(cmd []string) string {
	if len(cmd) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cmd))
	parts = append(parts, cmd[0])
	for _, arg := range cmd[1:] {
		parts = append(parts, QuoteArgForShell(arg))
	}
	return strings.Join(parts, " ")
}
