// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strings"
)

// splitPaths splits the file prompt input into paths. Paths are separated
// by spaces; single or double quotes and backslash-escaped spaces keep a
// path together, which covers what terminals paste on drag and drop.
// A leading "~/" expands to the home directory.
func splitPaths(input string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	flush := func() {
		if inTok {
			paths = append(paths, expandHome(cur.String()))
			cur.Reset()
			inTok = false
		}
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inTok = true
		case r == '\\' && i+1 < len(runes) && runes[i+1] == ' ':
			cur.WriteRune(' ')
			inTok = true
			i++
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()
	return paths
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
