// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package util

import "testing"

func TestQuoteArgForShell(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"simple", "'simple'"},
		{"has space", "'has space'"},
		{"it's", `'it'\''s'`},
		{"~/data/input.txt", `~/'data/input.txt'`},
		{"", "''"},
	}
	for _, c := range cases {
		if got := QuoteArgForShell(c.in); got != c.want {
			t.Errorf("QuoteArgForShell(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJoinForShell(t *testing.T) {
	got := JoinForShell([]string{"zip", "-j", "/tmp/out.zip", "a file.txt"})
	want := "zip '-j' '/tmp/out.zip' 'a file.txt'"
	if got != want {
		t.Fatalf("JoinForShell = %q, want %q", got, want)
	}
	if got := JoinForShell(nil); got != "" {
		t.Fatalf("JoinForShell(nil) = %q", got)
	}
}
