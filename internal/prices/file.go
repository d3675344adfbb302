package prices

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/tickerscope/internal/models"
)

// priceFile is the YAML fixture layout:
//
//	records:
//	  - ticker: AAPL
//	    date: 2024-01-02
//	    close_price: 185.64
type priceFile struct {
	Records []models.PriceRecord `yaml:"records"`
}

// FileSource serves price records from a YAML file, for offline use and demos
type FileSource struct {
	path string
}

// NewFileSource creates a file backed price source
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("prices.file.path is required")
	}
	return &FileSource{path: path}, nil
}

func (s *FileSource) Name() string {
	return "file"
}

// Fetch reads the whole file and returns the records in r for tickers
func (s *FileSource) Fetch(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price file %s: %w", s.path, err)
	}

	var file priceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse price file %s: %w", s.path, err)
	}

	wanted := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		wanted[strings.ToUpper(t)] = true
	}

	records := make([]models.PriceRecord, 0, len(file.Records))
	for _, rec := range file.Records {
		rec.Ticker = strings.ToUpper(strings.TrimSpace(rec.Ticker))
		if !r.Contains(rec.Date) {
			continue
		}
		if len(wanted) > 0 && !wanted[rec.Ticker] {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteFile stores records in the fixture layout read by FileSource
func WriteFile(path string, records []models.PriceRecord) error {
	data, err := yaml.Marshal(priceFile{Records: records})
	if err != nil {
		return fmt.Errorf("failed to encode price file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
