// Package packfetch downloads story packs from a remote catalog into the
// local data directory, where the loader can pick them up.
package packfetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const BaseURL = "https://packs.fable.suderio.github.io"

type Client struct {
	client  *http.Client
	dataDir string
	force   bool
}

func NewClient(dataDir string, force bool) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		dataDir: dataDir,
		force:   force,
	}
}

// Catalog is the remote pack index.
type Catalog struct {
	Count int `json:"count"`
	Packs []struct {
		Name        string `json:"name"`
		Title       string `json:"title"`
		Author      string `json:"author"`
		URL         string `json:"url"`
		SizeBytes   int64  `json:"size_bytes"`
		Description string `json:"description"`
	} `json:"packs"`
}

func (c *Client) FetchCatalog() (*Catalog, error) {
	url := fmt.Sprintf("%s/index.json", BaseURL)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// DownloadPack fetches one pack's YAML file and writes it under
// <dataDir>/packs/<name>.yaml. Existing files are skipped unless the
// client was created with force.
func (c *Client) DownloadPack(name, url string) (string, error) {
	relPath := filepath.Join("packs", name+".yaml")
	localPath := filepath.Join(c.dataDir, relPath)

	if !c.force {
		if _, err := os.Stat(localPath); err == nil {
			return relPath, nil
		}
	}

	fullURL := url
	if fullURL == "" {
		fullURL = fmt.Sprintf("%s/packs/%s.yaml", BaseURL, name)
	}

	req, err := http.NewRequest("GET", fullURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download pack %s: %s", fullURL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}

	return relPath, nil
}
