/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package postgres

import (
	"strings"
	"unicode"
)

// splitSQLStatements splits a migration script on top-level semicolons.
// Quoted strings, comments and dollar-quoted bodies are kept intact.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	state := &sqlParseState{}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if state.inLineComment {
			if ch == '\n' {
				state.inLineComment = false
				current.WriteByte(ch)
			}

			continue
		}

		if state.inBlockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				state.inBlockComment = false
				i++
			}

			continue
		}

		if state.dollarTag != "" {
			if strings.HasPrefix(content[i:], state.dollarTag) {
				current.WriteString(state.dollarTag)
				i += len(state.dollarTag) - 1
				state.dollarTag = ""

				continue
			}

			current.WriteByte(ch)

			continue
		}

		if state.quoted() {
			state.toggleQuote(ch)
			current.WriteByte(ch)

			continue
		}

		switch {
		case strings.HasPrefix(content[i:], "--"):
			state.inLineComment = true
			i++
		case strings.HasPrefix(content[i:], "/*"):
			state.inBlockComment = true
			i++
		case ch == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}

			current.Reset()
		default:
			if tag, advance := parseDollarTag(content[i:]); tag != "" {
				state.dollarTag = tag
				current.WriteString(tag)
				i += advance - 1

				continue
			}

			state.toggleQuote(ch)
			current.WriteByte(ch)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

type sqlParseState struct {
	inSingleQuote  bool
	inDoubleQuote  bool
	inLineComment  bool
	inBlockComment bool
	dollarTag      string
}

func (s *sqlParseState) quoted() bool {
	return s.inSingleQuote || s.inDoubleQuote
}

func (s *sqlParseState) toggleQuote(ch byte) {
	switch {
	case ch == '\'' && !s.inDoubleQuote:
		s.inSingleQuote = !s.inSingleQuote
	case ch == '"' && !s.inSingleQuote:
		s.inDoubleQuote = !s.inDoubleQuote
	}
}

// parseDollarTag returns the $tag$ opening content, if any, and its length.
func parseDollarTag(content string) (string, int) {
	if content == "" || content[0] != '$' {
		return "", 0
	}

	for i := 1; i < len(content); i++ {
		if content[i] == '$' {
			return content[:i+1], i + 1
		}

		if !isDollarTagChar(content[i]) {
			return "", 0
		}
	}

	return "", 0
}

func isDollarTagChar(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

// extractVersion returns the numeric prefix of a migration filename.
func extractVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}
