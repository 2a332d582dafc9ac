// Package ingest loads fact collections from disk. Upstream extraction
// dumps and hand-maintained fixtures arrive in varying states of JSON
// hygiene (trailing commas, comments, unquoted keys), so parsing is
// tolerant: strict JSON first, then automated repair, then Hjson.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"fact_resolution/pkg/core/facts"
)

// FactFile is one entity's fact collection as supplied by the upstream
// parsing/standardization layer. Facts arrive pre-mapped to canonical
// concepts; this engine never does concept mapping.
type FactFile struct {
	Ticker       string                  `json:"ticker,omitempty"`
	CIK          string                  `json:"cik,omitempty"`
	CompanyName  string                  `json:"company_name,omitempty"`
	DocumentDate string                  `json:"document_date,omitempty"` // Filing period-of-report date
	Entity       facts.EntityInfo        `json:"entity,omitempty"`
	Facts        []facts.Fact            `json:"facts"`
	Periods      []facts.ReportingPeriod `json:"periods,omitempty"`
}

// LoadFactFile reads and parses a single fact file.
func LoadFactFile(path string) (*FactFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file %s: %w", path, err)
	}
	ff, err := ParseFactCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fact file %s: %w", path, err)
	}
	return ff, nil
}

// ParseFactCollection parses a fact collection with escalating leniency:
// 1. Standard JSON
// 2. JSON repair (trailing commas, single quotes, unclosed brackets)
// 3. Hjson (comments, unquoted keys, optional commas)
func ParseFactCollection(data []byte) (*FactFile, error) {
	var ff FactFile
	if err := json.Unmarshal(data, &ff); err == nil {
		return &ff, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		ff = FactFile{}
		if err := json.Unmarshal([]byte(repaired), &ff); err == nil {
			fmt.Println("[INGEST] Input was malformed JSON; parsed after repair")
			return &ff, nil
		}
	}

	ff = FactFile{}
	if err := hjson.Unmarshal(data, &ff); err == nil {
		fmt.Println("[INGEST] Input parsed as Hjson")
		return &ff, nil
	}

	return nil, fmt.Errorf("all parsing strategies failed (json, repair, hjson)")
}

// LoadDirectory loads every .json and .hjson fact file under dir,
// skipping unparsable files with a warning rather than failing the
// whole batch.
func LoadDirectory(dir string) ([]*FactFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fact directory %s: %w", dir, err)
	}

	var files []*FactFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".hjson" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ff, err := LoadFactFile(path)
		if err != nil {
			fmt.Printf("[WARNING] Skipping %s: %v\n", entry.Name(), err)
			continue
		}
		files = append(files, ff)
	}
	return files, nil
}

// FactsByConcept groups a collection's facts by canonical concept,
// the shape the quarterizer and TTM calculator consume.
func (ff *FactFile) FactsByConcept() map[string][]facts.Fact {
	grouped := make(map[string][]facts.Fact)
	for _, f := range ff.Facts {
		grouped[f.Concept] = append(grouped[f.Concept], f)
	}
	return grouped
}
