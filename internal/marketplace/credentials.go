package marketplace

import (
	"encoding/json"
	"fmt"
	"os"
)

// credentialsFile is the on-disk layout: {"stockx": [{"username": ..., "password": ...}]}.
type credentialsFile struct {
	StockX []Credentials `json:"stockx"`
}

// LoadCredentials reads the first marketplace account from a credentials file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var f credentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials %s: %w", path, err)
	}
	if len(f.StockX) == 0 || f.StockX[0].Username == "" {
		return Credentials{}, fmt.Errorf("unexpected credentials file %s", path)
	}

	return f.StockX[0], nil
}
