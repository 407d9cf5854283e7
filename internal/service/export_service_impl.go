package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

type exportService struct{}

func NewExportService() ExportService {
	return exportService{}
}

// WriteCSV writes one row per leaf of the grouped tree, labelled with the
// names along its path, followed by a total row.
func (exportService) WriteCSV(w io.Writer, resp *app.ReportResponse) error {
	cw := csv.NewWriter(w)
	depth := len(resp.Groups)

	header := make([]string, 0, depth+4)
	for _, key := range resp.Groups {
		header = append(header, string(key))
	}
	header = append(header, "seconds", "hours", "cost", "currency")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	var walk func(groups []domain.Group, path []string) error
	walk = func(groups []domain.Group, path []string) error {
		for _, g := range groups {
			next := append(append([]string(nil), path...), g.Name)
			if !g.IsLeaf() && len(g.GroupedData) > 0 {
				if err := walk(g.GroupedData, next); err != nil {
					return err
				}
				continue
			}
			if err := cw.Write(csvRow(next, depth, g.Seconds, g.Cost, resp)); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
		return nil
	}
	if err := walk(resp.GroupedData, nil); err != nil {
		return err
	}

	total := []string{"Total"}
	if depth == 0 {
		total = nil
	}
	if err := cw.Write(csvRow(total, depth, resp.Seconds, resp.Cost, resp)); err != nil {
		return fmt.Errorf("writing csv total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(path []string, depth int, seconds, cost int64, resp *app.ReportResponse) []string {
	row := make([]string, depth, depth+4)
	copy(row, path)
	costCell := ""
	if resp.CostVisible {
		costCell = strconv.FormatInt(cost, 10)
	}
	return append(row,
		strconv.FormatInt(seconds, 10),
		decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).StringFixed(2),
		costCell,
		resp.Currency,
	)
}

func (exportService) WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
