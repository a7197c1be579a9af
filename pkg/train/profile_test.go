package train

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileByName(t *testing.T) {
	for _, name := range ProfileNames {
		p, err := ProfileByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		assert.NoError(t, p.Validate())
	}

	_, err := ProfileByName("bogus")
	assert.Error(t, err)
}

func TestBuiltinProfileBalance(t *testing.T) {
	p, err := ProfileByName("oversample")
	require.NoError(t, err)
	assert.Equal(t, BalanceOversample, p.Balance)
	assert.Equal(t, 0, p.MaxDepth)

	p, err = ProfileByName("weighted")
	require.NoError(t, err)
	assert.Equal(t, BalanceClassWeight, p.Balance)
	assert.Equal(t, 6, p.MaxDepth)
}

func TestLoadProfile(t *testing.T) {
	file := path.Join(t.TempDir(), "profile.yaml")
	body := "name: custom\ntrees: 50\nmax_depth: 4\nmin_leaf: 2\nmin_split: 2\nbalance: class-weight\n"
	require.NoError(t, os.WriteFile(file, []byte(body), 0600))

	p, err := LoadProfile(file)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, 50, p.Trees)
	assert.Equal(t, BalanceClassWeight, p.Balance)
}

func TestLoadProfileInvalid(t *testing.T) {
	file := path.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: broken\ntrees: 0\nbalance: oversample\n"), 0600))

	_, err := LoadProfile(file)
	assert.Error(t, err)

	_, err = LoadProfile(path.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Profile{Name: "x", Trees: 10, Balance: BalanceOversample}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Profile{Trees: 10, Balance: BalanceOversample}.Validate())
	assert.Error(t, Profile{Name: "x", Balance: BalanceOversample}.Validate())
	assert.Error(t, Profile{Name: "x", Trees: 10, Balance: "undersample"}.Validate())
}
