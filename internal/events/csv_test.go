package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.csv")
	content := "34200.189,1,1000,10,100000,1\n34200.190,2,1000,3,100000,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := FromCSVFile(path, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Event{Time: 34200, Type: Submission, OrderID: 1000, Size: 10, Price: 100000}, got[0])
	assert.Equal(t, Event{Time: 34200, Type: Cancellation, OrderID: 1000, Size: 3, Price: 100000}, got[1])
}

func TestFromCSVFileSellSide(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.csv")
	require.NoError(t, os.WriteFile(path, []byte("34200.5,1,2000,7,200000,-1\n"), 0o644))

	got, err := FromCSVFile(path, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(-7), got[0].Size)
}

func TestFromCSVFileTooFewColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.csv")
	require.NoError(t, os.WriteFile(path, []byte("34200.5,1,2000\n"), 0o644))

	_, err := FromCSVFile(path, nil)
	require.Error(t, err)
}

func TestFromCSVFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := FromCSVFile(path, nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
