package storage

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/zaddie29/News-aggregator-cli/internal/processor"
)

// 导出文件共用的表头，列序与 JSON 字段一致
var exportHeader = []string{"source", "title", "url", "publishedAt"}

func exportRow(h processor.Headline) []string {
	return []string{string(h.Source), h.Title, h.URL, h.PublishedAt}
}

// CSVFile 导出为带表头的 CSV 文件
type CSVFile struct {
	Path string
}

func (c CSVFile) Name() string { return "csv" }

func (c CSVFile) Write(headlines []processor.Headline) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", c.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, h := range headlines {
		if err := w.Write(exportRow(h)); err != nil {
			return fmt.Errorf("csv: write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %s: %w", c.Path, err)
	}
	return nil
}

// ExcelFile 导出为 xlsx 表格，表头写在 Sheet1 第一行
type ExcelFile struct {
	Path string
}

func (e ExcelFile) Name() string { return "excel" }

func (e ExcelFile) Write(headlines []processor.Headline) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := exportHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}
	for i, h := range headlines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: cell name: %w", err)
		}
		row := exportRow(h)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(e.Path); err != nil {
		return fmt.Errorf("excel: save %s: %w", e.Path, err)
	}
	return nil
}
