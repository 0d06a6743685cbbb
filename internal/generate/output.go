package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputListing groups generated markdown files by folder.
type OutputListing struct {
	Ready  []string `json:"ready"`
	Review []string `json:"review"`
}

// ListOutputs enumerates generated markdown files. Missing folders read
// as empty.
func (s *Service) ListOutputs() (*OutputListing, error) {
	return &OutputListing{
		Ready:  listMarkdown(s.cfg.ReadyDir()),
		Review: listMarkdown(s.cfg.ReviewDir()),
	}, nil
}

func listMarkdown(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	return files
}

// ReadOutput returns the content of one generated file. Folder must be
// ready or review; the filename is stripped to its base so requests
// cannot escape the output tree.
func (s *Service) ReadOutput(folder, filename string) (string, error) {
	dir, err := s.outputDir(folder)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Approve moves a file from review to ready.
func (s *Service) Approve(filename string) error {
	name := filepath.Base(filename)
	return os.Rename(
		filepath.Join(s.cfg.ReviewDir(), name),
		filepath.Join(s.cfg.ReadyDir(), name),
	)
}

func (s *Service) outputDir(folder string) (string, error) {
	switch folder {
	case "ready":
		return s.cfg.ReadyDir(), nil
	case "review":
		return s.cfg.ReviewDir(), nil
	default:
		return "", fmt.Errorf("invalid folder %q", folder)
	}
}
