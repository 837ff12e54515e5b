package validate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestContractDriftGate prevents regression of known drifted field names/tags.
// The public content contract is camelCase; snake_case tags on these fields
// have leaked in before and break site clients silently.
func TestContractDriftGate(t *testing.T) {
	projectRoot := findProjectRoot(t)

	// List of forbidden patterns that indicate contract drift
	forbiddenPatterns := []string{
		`json:"session_count"`,
		`json:"price_per_session"`,
		`json:"total_price"`,
		`json:"deal_price"`,
		`json:"discount_percentage"`,
		`json:"average_rating"`,
		`json:"five_star_count"`,
		`json:"featured_count"`,
		`json:"instrument_count"`,
	}

	// Directories carrying the public content contract
	scanDirs := []string{
		"internal/content",
		"internal/pricing",
		"internal/stats",
	}

	violations := []string{}

	for _, dir := range scanDirs {
		fullDir := filepath.Join(projectRoot, dir)
		err := filepath.Walk(fullDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			scanner := bufio.NewScanner(file)
			lineNum := 1
			for scanner.Scan() {
				line := scanner.Text()
				for _, pattern := range forbiddenPatterns {
					if strings.Contains(line, pattern) {
						relPath, _ := filepath.Rel(projectRoot, path)
						violations = append(violations, fmt.Sprintf("%s:%d: found forbidden pattern %q", relPath, lineNum, pattern))
					}
				}
				lineNum++
			}
			return scanner.Err()
		})

		if err != nil && !os.IsNotExist(err) {
			t.Errorf("Failed to scan %s: %v", dir, err)
		}
	}

	if len(violations) > 0 {
		t.Errorf("Contract drift violations detected:\n\n%s\n\nThe content API is camelCase; keep struct tags aligned.", strings.Join(violations, "\n"))
	}
}
