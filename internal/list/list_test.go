package list

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsake/internal/links"
)

func TestRunMissingDatabase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Run(t.Context(), &buf, filepath.Join(t.TempDir(), "nope.db"), "", 0))
	assert.Contains(t, buf.String(), "Keepsake database not found")
}

func TestRunPrintsLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keepsake.db")
	db, err := links.Open(path)
	require.NoError(t, err)
	require.NoError(t, links.InitSchema(db))
	_, err = links.Save(t.Context(), db, links.KindCapsule, "cap-1", "http://localhost:3000/view-capsule.html?id=cap-1")
	require.NoError(t, err)
	_, err = links.Save(t.Context(), db, links.KindGift, "", "http://localhost:3000/view-gift.html?id=g1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	require.NoError(t, Run(t.Context(), &buf, path, "", 0))
	out := buf.String()
	assert.Contains(t, out, "Found 2 links")
	assert.Contains(t, out, "view-capsule.html?id=cap-1")
	assert.Contains(t, out, "Ref: -")

	buf.Reset()
	require.NoError(t, Run(t.Context(), &buf, path, links.KindGift, 0))
	assert.Contains(t, buf.String(), "Found 1 links")
	assert.NotContains(t, buf.String(), "cap-1")
}

func TestRunEmptySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keepsake.db")
	db, err := links.Open(path)
	require.NoError(t, err)
	// touch the file without creating tables
	_, err = db.Exec(`CREATE TABLE other (x INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	require.NoError(t, Run(t.Context(), &buf, path, "capsule", 0))
	assert.Contains(t, buf.String(), "no link history yet")
}
