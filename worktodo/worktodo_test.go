package worktodo

import (
	"path/filepath"
	"testing"

	"github.com/primesearch/goowl/io/file"
	"github.com/primesearch/goowl/testing/assert"
	"github.com/primesearch/goowl/testing/require"
)

const (
	prpLine  = "PRP=FEEE9DCD59A0855711265C1165C4C693,1,2,124647911,-1,77,0"
	prpSmall = "PRP=0123456789ABCDEF0123456789ABCDEF,1,2,100000007,-1,77,0"
	certLine = "Cert=B2EE67DC0A514753E488794C9DD6F6BD,1,2,82997591,-1,162105"
)

func writeShared(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "worktodo.txt")
	for _, l := range lines {
		require.NoError(t, file.AppendLine(path, l))
	}
	return path
}

func TestBestTaskCertPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeShared(t, dir, prpSmall, certLine)

	task, err := bestTask(path)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, Cert, task.Kind)
	assert.Equal(t, uint32(82997591), task.Exponent)
}

func TestBestTaskSmallestExponent(t *testing.T) {
	dir := t.TempDir()
	path := writeShared(t, dir, prpLine, prpSmall)

	task, err := bestTask(path)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, uint32(100000007), task.Exponent)
}

func TestBestTaskSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := writeShared(t, dir, "# comment", "garbage line", prpLine)

	task, err := bestTask(path)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, prpLine, task.Line)
}

func TestBestTaskEmpty(t *testing.T) {
	task, err := bestTask(filepath.Join(t.TempDir(), "worktodo.txt"))
	require.NoError(t, err)
	assert.Equal(t, true, task == nil)
}

func TestGetTaskMovesAssignment(t *testing.T) {
	master := t.TempDir()
	local := t.TempDir()
	writeShared(t, master, prpLine, prpSmall)

	task, err := GetTask(master, local, 1)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, uint32(100000007), task.Exponent)

	// The claimed line moved from the shared file to the local one.
	sharedLines, err := file.ReadLines(filepath.Join(master, "worktodo.txt"))
	require.NoError(t, err)
	require.DeepEqual(t, []string{prpLine}, sharedLines)

	localLines, err := file.ReadLines(filepath.Join(local, FileName(1)))
	require.NoError(t, err)
	require.DeepEqual(t, []string{prpSmall}, localLines)

	// A second call serves the local file without touching the shared one.
	again, err := GetTask(master, local, 1)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, task.Line, again.Line)
	sharedLines, err = file.ReadLines(filepath.Join(master, "worktodo.txt"))
	require.NoError(t, err)
	require.DeepEqual(t, []string{prpLine}, sharedLines)
}

func TestGetTaskTwoInstances(t *testing.T) {
	master := t.TempDir()
	local := t.TempDir()
	writeShared(t, master, prpLine)

	first, err := GetTask(master, local, 0)
	require.NoError(t, err)
	require.NotNil(t, first)

	// The only assignment is gone; the second instance gets nothing.
	second, err := GetTask(master, local, 1)
	require.NoError(t, err)
	assert.Equal(t, true, second == nil)
}

func TestGetTaskEmptyShared(t *testing.T) {
	master := t.TempDir()
	task, err := GetTask(master, t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, true, task == nil)
}

func TestGetTaskNoMasterDir(t *testing.T) {
	task, err := GetTask("", t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, true, task == nil)
}

func TestDeleteTask(t *testing.T) {
	local := t.TempDir()
	localWork := filepath.Join(local, FileName(0))
	require.NoError(t, file.AppendLine(localWork, prpLine))

	task := parse(prpLine)
	require.NotNil(t, task)

	found, err := DeleteTask(local, 0, task)
	require.NoError(t, err)
	assert.Equal(t, true, found)

	lines, err := file.ReadLines(localWork)
	require.NoError(t, err)
	assert.Equal(t, 0, len(lines))
}

func TestDeleteTaskNoLine(t *testing.T) {
	found, err := DeleteTask(t.TempDir(), 0, &Task{Kind: PRP, Exponent: 1009})
	require.NoError(t, err)
	assert.Equal(t, true, found)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "worktodo-0.txt", FileName(0))
	assert.Equal(t, "worktodo-3.txt", FileName(3))
}
