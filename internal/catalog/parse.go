package catalog

import (
	"bufio"
	"os"
	"strings"
)

// ParseMarkdown reads the catalog Markdown at path and extracts entries from
// its table rows. Officers maintain the file as one table per profession:
//
//	| item id       | label        | profession     | gear slot |
//	| ------------- | ------------ | -------------- | --------- |
//	| breastplate   | Breastplate  | blacksmithing  | chest     |
//
// Rules:
//   - Only table rows ("| ... |") produce entries; prose lines are ignored.
//   - Separator rows (dashes/colons) and header rows are skipped. A header
//     is recognized by its first cell reading "item id" or "item".
//   - Rows need at least 3 cells (id, label, profession); a missing gear
//     slot cell is tolerated.
//   - Malformed rows are skipped, not fatal; a guild catalog is hand-edited.
func ParseMarkdown(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			continue
		}

		raw := strings.Trim(line, "|")
		cols := strings.Split(raw, "|")

		cells := make([]string, 0, len(cols))
		allSep := true
		for _, c := range cols {
			cell := strings.TrimSpace(c)
			cells = append(cells, cell)
			tmp := strings.ReplaceAll(cell, ":", "")
			tmp = strings.ReplaceAll(tmp, "-", "")
			if strings.TrimSpace(tmp) != "" {
				allSep = false
			}
		}
		if allSep || len(cells) < 3 {
			continue
		}

		first := strings.ToLower(cells[0])
		if first == "item id" || first == "item" || first == "itemid" {
			continue
		}

		e := Entry{
			ItemID:     cells[0],
			Label:      cells[1],
			Profession: cells[2],
		}
		if len(cells) > 3 {
			e.GearSlot = cells[3]
		}
		if e.ItemID == "" || e.Profession == "" {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadMarkdown parses the catalog at path and builds an Index in one step.
func LoadMarkdown(path string, opts ...Option) (Index, error) {
	entries, err := ParseMarkdown(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(entries, opts...), nil
}
