package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Standard column names for spam corpora
const (
	ColLabel = "Label"
	ColText  = "Message"
)

// FromTSV returns a lazy dataset over a tab-separated corpus file with
// two columns per line: a label token and a free-text message, no header
// row. The file is opened and parsed on first access, so I/O and format
// errors surface from the first operation that needs the data.
func FromTSV(path string) *Dataset {
	return &Dataset{
		schema: Schema{
			{Name: ColLabel, Kind: KindString},
			{Name: ColText, Kind: KindString},
		},
		load: func(d *Dataset) error {
			labels, texts, err := readTSV(path)
			if err != nil {
				return err
			}
			d.cols = map[string]interface{}{
				ColLabel: labels,
				ColText:  texts,
			}
			d.rows = len(labels)
			return nil
		},
	}
}

func readTSV(path string) (labels, texts []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("malformed corpus file %s: line %d has no tab separator", path, lineNo)
		}

		labels = append(labels, strings.TrimSpace(parts[0]))
		texts = append(texts, parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read corpus file %s: %v", path, err)
	}

	return labels, texts, nil
}

// FromMessages builds an in-memory dataset with a single text column,
// used for scoring example inputs with a trained model
func FromMessages(texts []string) *Dataset {
	msgs := make([]string, len(texts))
	copy(msgs, texts)
	return &Dataset{
		schema: Schema{{Name: ColText, Kind: KindString}},
		cols:   map[string]interface{}{ColText: msgs},
		rows:   len(msgs),
	}
}

// FromRows builds an in-memory labeled dataset from parallel label and
// text slices
func FromRows(labels, texts []string) (*Dataset, error) {
	if len(labels) != len(texts) {
		return nil, fmt.Errorf("label count %d does not match message count %d", len(labels), len(texts))
	}
	ls := make([]string, len(labels))
	copy(ls, labels)
	ts := make([]string, len(texts))
	copy(ts, texts)
	return &Dataset{
		schema: Schema{
			{Name: ColLabel, Kind: KindString},
			{Name: ColText, Kind: KindString},
		},
		cols: map[string]interface{}{ColLabel: ls, ColText: ts},
		rows: len(ls),
	}, nil
}
