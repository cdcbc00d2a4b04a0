package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// domainsFile is the YAML layout of DOMAINS_FILE:
//
//	domains:
//	  - name: Work
//	    color: "#00ffff"
//	    anchor_x: -500
//	    anchor_y: -500
//	    frac_x: -0.25
//	    frac_y: -0.25
type domainsFile struct {
	Domains []domain.TaskDomain `yaml:"domains"`
}

// LoadDomains reads a domain table from a YAML file
func LoadDomains(path string) (*domain.DomainTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domains: %w", err)
	}
	return ParseDomains(data)
}

// ParseDomains decodes a YAML domain table
func ParseDomains(data []byte) (*domain.DomainTable, error) {
	var file domainsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse domains: %w", err)
	}
	for _, d := range file.Domains {
		if !hexColorRegex.MatchString(d.Color) {
			return nil, fmt.Errorf("domain %q: color %q is not #rrggbb", d.Name, d.Color)
		}
	}
	return domain.NewDomainTable(file.Domains)
}

// DomainSource hands out the current domain table. It is safe for concurrent use.
type DomainSource struct {
	current atomic.Pointer[domain.DomainTable]
	path    string
	logger  *zap.Logger
}

// NewDomainSource loads path, or uses the stock table when path is empty
func NewDomainSource(path string, logger *zap.Logger) (*DomainSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DomainSource{path: path, logger: logger}
	table := domain.DefaultDomains()
	if path != "" {
		loaded, err := LoadDomains(path)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	s.current.Store(table)
	return s, nil
}

// Table returns the current table
func (s *DomainSource) Table() *domain.DomainTable {
	return s.current.Load()
}

// Reload rereads the file. A broken file keeps the previous table.
func (s *DomainSource) Reload() error {
	if s.path == "" {
		return nil
	}
	table, err := LoadDomains(s.path)
	if err != nil {
		return err
	}
	s.current.Store(table)
	return nil
}

// Watch reloads the table whenever the file changes, until ctx is done.
// The directory is watched so editors that replace the file are picked up too.
func (s *DomainSource) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := s.Reload(); err != nil {
					s.logger.Warn("Keeping previous domain table", zap.String("path", s.path), zap.Error(err))
					continue
				}
				s.logger.Info("Domain table reloaded", zap.String("path", s.path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Domain watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
