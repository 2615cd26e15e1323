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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatementsKeepsDollarBlocks(t *testing.T) {
	content := `
CREATE TABLE foo (id INT);

DO $$
BEGIN
    IF NOT EXISTS (SELECT 1) THEN
        RAISE NOTICE 'x;y';
    END IF;
END $$;

SELECT 1;
`

	statements := splitSQLStatements(content)
	require.Len(t, statements, 3)

	assert.True(t, strings.HasPrefix(statements[1], "DO $$"))
	assert.True(t, strings.HasSuffix(statements[1], "END $$"))
	assert.Equal(t, "SELECT 1", statements[2])
}

func TestSplitSQLStatementsIgnoresSemicolonsInQuotesAndComments(t *testing.T) {
	content := `
-- leading comment; with a semicolon
INSERT INTO logs(message) VALUES('hello;world');
/* block; comment */
INSERT INTO "odd;name" VALUES ('it''s;fine');
DO $tag$
BEGIN
    PERFORM do_something('value;with;semicolons');
END $tag$;
UPDATE hosts SET name = $1 WHERE id = $2
`

	statements := splitSQLStatements(content)
	require.Len(t, statements, 4)

	assert.Equal(t, "INSERT INTO logs(message) VALUES('hello;world')", statements[0])
	assert.Equal(t, `INSERT INTO "odd;name" VALUES ('it''s;fine')`, statements[1])
	assert.True(t, strings.HasSuffix(statements[2], "$tag$"))
	assert.Equal(t, "UPDATE hosts SET name = $1 WHERE id = $2", statements[3])
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "00001", extractVersion("00001_inventory.up.sql"))
	assert.Equal(t, "plain.sql", extractVersion("plain.sql"))
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := upMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "00001_inventory.up.sql", names[0])

	for _, name := range names {
		assert.True(t, strings.HasSuffix(name, ".up.sql"), name)

		content, err := migrationsFS.ReadFile("migrations/" + name)
		require.NoError(t, err)

		statements := splitSQLStatements(string(content))
		assert.NotEmpty(t, statements, name)

		for _, stmt := range statements {
			assert.False(t, strings.HasPrefix(stmt, "--"), "comment leaked into %q", stmt)
		}
	}
}
