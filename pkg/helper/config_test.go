package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCfgPath(t *testing.T) {
	assert.Panics(t, func() { GetCfgPath("") })

	abs := "/tmp/lokal.yaml"
	assert.Equal(t, abs, GetCfgPath(abs))

	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })

	tmp := t.TempDir()
	_ = os.Chdir(tmp)

	f1 := "a.yaml"
	assert.NoError(t, os.WriteFile(f1, []byte("x"), 0o644))
	got := GetCfgPath(f1)
	exp, _ := filepath.EvalSymlinks(filepath.Join(tmp, f1))
	realGot, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, exp, realGot)

	// ./configs is checked second
	_ = os.Remove(filepath.Join(tmp, f1))
	_ = os.MkdirAll("configs", 0o755)
	assert.NoError(t, os.WriteFile(filepath.Join("configs", f1), []byte("x"), 0o644))
	got = GetCfgPath(f1)
	exp, _ = filepath.EvalSymlinks(filepath.Join(tmp, "configs", f1))
	realGot, _ = filepath.EvalSymlinks(got)
	assert.Equal(t, exp, realGot)

	_ = os.Remove(filepath.Join(tmp, "configs", f1))
	assert.Equal(t, filepath.Join(DefaultCfgDir, f1), GetCfgPath(f1))
}

func TestPIDFile_WriteReadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "lokal.pid")
	p := NewPIDFile(path)
	assert.Equal(t, path, p.Path())

	assert.NoError(t, p.Write())
	pid, err := p.Read()
	assert.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	assert.NoError(t, p.Remove())
	_, err = p.Read()
	assert.Error(t, err)
}

func TestNewPIDFile_Fallback(t *testing.T) {
	assert.Equal(t, DefaultPIDFile, NewPIDFile("").Path())
	assert.Equal(t, DefaultPIDFile, NewPIDFile("missing-dir/x/lokal.pid").Path())
}
