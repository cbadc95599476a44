package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dpshade/promptdeck/internal/models"
)

// PromptMetadata represents the cached header of a prompt file
type PromptMetadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Key         string    `json:"key"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
}

// MetadataCache caches parsed prompt headers keyed by file, so a reload
// only parses files that changed since the last listing.
type MetadataCache struct {
	cacheDir  string
	cacheFile string
	metadata  map[string]*PromptMetadata
	mu        sync.RWMutex
}

// NewMetadataCache creates a new metadata cache
func NewMetadataCache(baseDir string) *MetadataCache {
	cacheDir := filepath.Join(baseDir, metaDir, "cache")
	return &MetadataCache{
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "metadata.json"),
		metadata:  make(map[string]*PromptMetadata),
	}
}

// Load loads the metadata cache from disk. A missing or corrupt cache file
// leaves the cache empty.
func (c *MetadataCache) Load() error {
	data, err := os.ReadFile(c.cacheFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := json.Unmarshal(data, &c.metadata); err != nil {
		c.metadata = make(map[string]*PromptMetadata)
	}
	return nil
}

// Save saves the metadata cache to disk
func (c *MetadataCache) Save() error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Get retrieves metadata for a file if the file is unchanged since it was cached
func (c *MetadataCache) Get(key string, fileInfo os.FileInfo) (*PromptMetadata, bool) {
	c.mu.RLock()
	cached, exists := c.metadata[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if !fileInfo.ModTime().Equal(cached.ModTime) || fileInfo.Size() != cached.Size {
		return nil, false
	}

	return cached, true
}

// Set stores metadata in the cache
func (c *MetadataCache) Set(key string, fileInfo os.FileInfo, prompt *models.Prompt) {
	c.mu.Lock()
	c.metadata[key] = &PromptMetadata{
		Name:        prompt.Name,
		Description: prompt.Description,
		Tags:        prompt.Tags,
		Role:        prompt.Role.String(),
		CreatedAt:   prompt.CreatedAt,
		UpdatedAt:   prompt.UpdatedAt,
		Key:         key,
		ModTime:     fileInfo.ModTime(),
		Size:        fileInfo.Size(),
	}
	c.mu.Unlock()
}

// ToPrompt converts cached metadata back to a Prompt
func (m *PromptMetadata) ToPrompt() *models.Prompt {
	role, _ := models.ParseRole(m.Role)
	return &models.Prompt{
		Name:        m.Name,
		Description: m.Description,
		Tags:        append([]string(nil), m.Tags...),
		Role:        role,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Key:         m.Key,
	}
}

// Cleanup removes cache entries for files that no longer exist and reports
// whether anything was removed.
func (c *MetadataCache) Cleanup(existingFiles map[string]bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	for key := range c.metadata {
		if !existingFiles[key] {
			delete(c.metadata, key)
			removed = true
		}
	}
	return removed
}
