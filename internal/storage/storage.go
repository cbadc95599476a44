package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/promptdeck/internal/models"
)

const (
	PromptsDir   = "prompts"
	TemplatesDir = "templates"
	StateDir     = "state"
	metaDir      = ".promptdeck"

	promptExt = ".md"
)

// ErrNotExist is returned when a prompt or template file is missing
var ErrNotExist = fs.ErrNotExist

// Storage handles all file system operations for prompts and templates.
// Prompts live under <root>/prompts as markdown files with a YAML header.
type Storage struct {
	rootPath string
	include  glob.Glob
	cache    *MetadataCache
	log      *logrus.Logger
}

// NewStorage creates a new storage instance rooted at rootPath. include is a
// glob matched against paths relative to the prompts directory.
func NewStorage(rootPath, include string, logger *logrus.Logger) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".promptdeck")
	}
	if include == "" {
		include = "**" + promptExt
	}

	g, err := glob.Compile(include, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// The cache is optional
		logger.WithError(err).Warn("failed to load metadata cache")
	}

	return &Storage{
		rootPath: rootPath,
		include:  g,
		cache:    cache,
		log:      logger,
	}, nil
}

// InitLibrary creates the directory structure for a prompt library
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, PromptsDir),
		filepath.Join(s.rootPath, TemplatesDir),
		filepath.Join(s.rootPath, StateDir),
		filepath.Join(s.rootPath, metaDir, "cache"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// AbsPath returns the absolute path of the file behind key
func (s *Storage) AbsPath(key string) string {
	return filepath.Join(s.rootPath, filepath.FromSlash(key))
}

// KeyFor returns the key a prompt called name is stored under
func (s *Storage) KeyFor(name string) string {
	return PromptsDir + "/" + strings.TrimSpace(name) + promptExt
}

// Exists reports whether a prompt file for name is present
func (s *Storage) Exists(name string) bool {
	_, err := os.Stat(s.AbsPath(s.KeyFor(name)))
	return err == nil
}

// LoadPrompt loads a prompt header and its body
func (s *Storage) LoadPrompt(key string) (*models.Prompt, string, error) {
	content, err := os.ReadFile(s.AbsPath(key))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read prompt file: %w", err)
	}

	var prompt models.Prompt
	body, err := parseFrontmatter(content, &prompt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse prompt %s: %w", key, err)
	}

	prompt.Key = key
	if strings.TrimSpace(prompt.Name) == "" {
		prompt.Name = stem(key)
	}
	prompt.Tags = models.NormalizeTags(prompt.Tags)

	return &prompt, body, nil
}

// ReadContent returns the body of the prompt behind key
func (s *Storage) ReadContent(key string) (string, error) {
	_, body, err := s.LoadPrompt(key)
	return body, err
}

// SavePrompt writes a prompt header and body to the prompt's key
func (s *Storage) SavePrompt(prompt *models.Prompt, body string) error {
	if prompt.Key == "" {
		return fmt.Errorf("prompt %q has no key", prompt.Name)
	}
	fullPath := s.AbsPath(prompt.Key)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	content, err := serializeFrontmatter(prompt, body)
	if err != nil {
		return fmt.Errorf("failed to serialize prompt: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}

	return nil
}

// DeletePrompt deletes the prompt file behind key
func (s *Storage) DeletePrompt(key string) error {
	fullPath := s.AbsPath(key)

	if _, err := os.Stat(fullPath); err != nil {
		return fmt.Errorf("prompt file %s: %w", key, err)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete prompt file: %w", err)
	}

	return nil
}

// ListPrompts returns every prompt under the prompts directory ordered by key.
// Unreadable files are logged and skipped; an unreadable prompts directory
// is an error.
func (s *Storage) ListPrompts() ([]*models.Prompt, error) {
	promptsDir := filepath.Join(s.rootPath, PromptsDir)
	if _, err := os.Stat(promptsDir); errors.Is(err, fs.ErrNotExist) {
		// A fresh library has no prompts directory yet, but its parent must be usable
		if _, rootErr := os.Stat(s.rootPath); rootErr != nil && !errors.Is(rootErr, fs.ErrNotExist) {
			return nil, rootErr
		}
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var prompts []*models.Prompt
	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(promptsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		inner, _ := filepath.Rel(promptsDir, path)
		if !s.include.Match(filepath.ToSlash(inner)) {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		key := filepath.ToSlash(relPath)
		existingFiles[key] = true

		// Try to get from cache first
		if cached, valid := s.cache.Get(key, info); valid {
			prompts = append(prompts, cached.ToPrompt())
			return nil
		}

		// Cache miss - load and parse the prompt
		prompt, _, err := s.LoadPrompt(key)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("skipping unreadable prompt")
			return nil
		}

		s.cache.Set(key, info, prompt)
		cacheModified = true

		prompts = append(prompts, prompt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cleanup cache entries for deleted files
	if s.cache.Cleanup(existingFiles) {
		cacheModified = true
	}

	if cacheModified {
		if err := s.cache.Save(); err != nil {
			s.log.WithError(err).Warn("failed to save metadata cache")
		}
	}

	sort.SliceStable(prompts, func(i, j int) bool {
		return prompts[i].Key < prompts[j].Key
	})
	return prompts, nil
}

// LoadTemplate loads a template from a markdown file
func (s *Storage) LoadTemplate(key string) (*models.Template, error) {
	content, err := os.ReadFile(s.AbsPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var template models.Template
	body, err := parseFrontmatter(content, &template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	template.Key = key
	template.Content = body
	if strings.TrimSpace(template.Name) == "" {
		template.Name = stem(key)
	}
	return &template, nil
}

// ListTemplates returns all user templates in the library. A missing
// templates directory yields no templates.
func (s *Storage) ListTemplates() ([]*models.Template, error) {
	templatesDir := filepath.Join(s.rootPath, TemplatesDir)
	if _, err := os.Stat(templatesDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var templates []*models.Template
	err := filepath.Walk(templatesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, promptExt) {
			relPath, _ := filepath.Rel(s.rootPath, path)
			template, err := s.LoadTemplate(filepath.ToSlash(relPath))
			if err != nil {
				s.log.WithError(err).WithField("path", relPath).Warn("skipping unreadable template")
				return nil
			}
			templates = append(templates, template)
		}

		return nil
	})

	return templates, err
}

// Helper functions

// parseFrontmatter decodes the YAML header of content into out and returns
// the body. Files without a header are treated as all body.
func parseFrontmatter(content []byte, out interface{}) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return "", scanner.Err()
	}
	if strings.TrimRight(scanner.Text(), "\r") != "---" {
		return trimLeadingBlankLines(string(content)), nil
	}

	// Read frontmatter
	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return "", fmt.Errorf("unterminated frontmatter")
	}

	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), out); err != nil {
		return "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	// Read remaining content
	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return trimLeadingBlankLines(strings.Join(contentLines, "\n")), nil
}

// trimLeadingBlankLines drops whole blank lines before the body. Indentation
// on the first non-blank line is part of the body.
func trimLeadingBlankLines(body string) string {
	for {
		i := strings.IndexByte(body, '\n')
		if i < 0 {
			if strings.TrimSpace(body) == "" {
				return ""
			}
			return body
		}
		if strings.TrimSpace(body[:i]) != "" {
			return body
		}
		body = body[i+1:]
	}
}

func serializeFrontmatter(header interface{}, body string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(header); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		// Ensure file ends with newline
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func stem(key string) string {
	base := filepath.Base(filepath.FromSlash(key))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
