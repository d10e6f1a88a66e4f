package icons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coin_ids.json")
	err := os.WriteFile(path, []byte(`{"BTC": 1, "ETH": "1027", "XRP": 52, "BAD": null}`), 0o644)
	assert.NoError(t, err)

	l := Load(path, "", nil)
	assert.Equal(t, l.Len(), 3)
	assert.Equal(t, l.URL("BTC"), "https://s2.coinmarketcap.com/static/img/coins/64x64/1.png")
	assert.Equal(t, l.URL("ETH"), "https://s2.coinmarketcap.com/static/img/coins/64x64/1027.png")
	assert.Equal(t, l.URL("PEPE"), "https://s2.coinmarketcap.com/static/img/coins/64x64/default.png")
}

func TestLoad_MissingFile(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "absent.json"), "https://icons.example/", nil)
	assert.Equal(t, l.Len(), 0)
	assert.Equal(t, l.URL("BTC"), "https://icons.example/default.png")
}

func TestLoad_NotAnObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coin_ids.json")
	assert.NoError(t, os.WriteFile(path, []byte(`[1, 2, 3]`), 0o644))

	l := Load(path, "", nil)
	assert.Equal(t, l.Len(), 0)
	assert.Equal(t, l.ID("BTC"), DefaultKey)
}

func TestNew_BaseURLWithoutSlash(t *testing.T) {
	l := New("https://cdn.example/icons", map[string]string{"BTC": "1"})
	assert.Equal(t, l.URL("BTC"), "https://cdn.example/icons/1.png")
}
