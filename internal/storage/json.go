package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zaddie29/News-aggregator-cli/internal/processor"
)

// JSONFile 把头条写成缩进的 JSON 数组文件，覆盖旧内容
type JSONFile struct {
	Path string
}

func (j JSONFile) Name() string { return "json" }

// Write 空结果也写出 []，而不是 null
func (j JSONFile) Write(headlines []processor.Headline) error {
	if headlines == nil {
		headlines = []processor.Headline{}
	}
	data, err := json.MarshalIndent(headlines, "", "    ")
	if err != nil {
		return fmt.Errorf("json: marshal: %w", err)
	}
	if err := os.WriteFile(j.Path, data, 0o644); err != nil {
		return fmt.Errorf("json: write %s: %w", j.Path, err)
	}
	return nil
}
