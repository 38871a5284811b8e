package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nota-app/nota/pkg/models"
)

// checkedSentinel is the leading rune marking a checked todo in the legacy
// content encoding.
const checkedSentinel = "✓"

// blockRecord is the persisted form of a block. It keeps the original
// overloaded content encoding so workspaces written by earlier versions keep
// loading: a checked todo stores the sentinel prefix, a table stores rows
// newline-separated with pipe-separated cells.
type blockRecord struct {
	ID        models.BlockID   `json:"id"`
	Type      models.BlockType `json:"type"`
	Content   string           `json:"content"`
	Indent    int              `json:"indent"`
	Children  []blockRecord    `json:"children,omitempty"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

// pageRecord is the persisted form of a page.
type pageRecord struct {
	ID        models.PageID  `json:"id"`
	Name      string         `json:"name"`
	ParentID  *models.PageID `json:"parentId,omitempty"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// legacyContent folds the tagged fields into the single content string.
func legacyContent(b models.Block) string {
	switch b.Type {
	case models.BlockTypeTodo:
		if b.Checked {
			return checkedSentinel + b.Text
		}
		return b.Text
	case models.BlockTypeTable:
		if len(b.Rows) == 0 {
			return ""
		}
		rows := make([]string, len(b.Rows))
		for i, row := range b.Rows {
			rows[i] = strings.Join(row, "|")
		}
		return strings.Join(rows, "\n")
	default:
		return b.Text
	}
}

// decodeContent splits the overloaded content string back into tagged
// fields. An empty table normalizes to nil rows.
func decodeContent(t models.BlockType, content string) (text string, checked bool, rows [][]string) {
	switch t {
	case models.BlockTypeTodo:
		if strings.HasPrefix(content, checkedSentinel) {
			return strings.TrimPrefix(content, checkedSentinel), true, nil
		}
		return content, false, nil
	case models.BlockTypeTable:
		if content == "" {
			return "", false, nil
		}
		lines := strings.Split(content, "\n")
		rows = make([][]string, len(lines))
		for i, line := range lines {
			rows[i] = strings.Split(line, "|")
		}
		return "", false, rows
	default:
		return content, false, nil
	}
}

func toRecord(b models.Block) blockRecord {
	rec := blockRecord{
		ID:        b.ID,
		Type:      b.Type,
		Content:   legacyContent(b),
		Indent:    b.Indent,
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339Nano),
	}
	for _, child := range b.Children {
		rec.Children = append(rec.Children, toRecord(child))
	}
	return rec
}

func fromRecord(rec blockRecord) (models.Block, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return models.Block{}, fmt.Errorf("block %s: bad createdAt: %w", rec.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
	if err != nil {
		return models.Block{}, fmt.Errorf("block %s: bad updatedAt: %w", rec.ID, err)
	}
	text, checked, rows := decodeContent(rec.Type, rec.Content)
	b := models.Block{
		ID:        rec.ID,
		Type:      rec.Type,
		Text:      text,
		Checked:   checked,
		Rows:      rows,
		Indent:    models.ClampIndent(rec.Indent),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for _, child := range rec.Children {
		decoded, err := fromRecord(child)
		if err != nil {
			return models.Block{}, err
		}
		b.Children = append(b.Children, decoded)
	}
	return b, nil
}

// EncodeBlocks serializes an ordered block list into its storage string.
func EncodeBlocks(blocks []models.Block) (string, error) {
	records := make([]blockRecord, len(blocks))
	for i, b := range blocks {
		records[i] = toRecord(b)
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode blocks: %w", err)
	}
	return string(raw), nil
}

// DecodeBlocks parses a storage string back into an ordered block list.
func DecodeBlocks(value string) ([]models.Block, error) {
	if value == "" {
		return nil, nil
	}
	var records []blockRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	blocks := make([]models.Block, 0, len(records))
	for _, rec := range records {
		b, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// EncodePages serializes the directory's page list.
func EncodePages(pages []models.Page) (string, error) {
	records := make([]pageRecord, len(pages))
	for i, p := range pages {
		records[i] = pageRecord{
			ID:        p.ID,
			Name:      p.Name,
			ParentID:  p.ParentID,
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339Nano),
		}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode pages: %w", err)
	}
	return string(raw), nil
}

// DecodePages parses the stored page list.
func DecodePages(value string) ([]models.Page, error) {
	if value == "" {
		return nil, nil
	}
	var records []pageRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}
	pages := make([]models.Page, 0, len(records))
	for _, rec := range records {
		createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("page %s: bad createdAt: %w", rec.Name, err)
		}
		updatedAt, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("page %s: bad updatedAt: %w", rec.Name, err)
		}
		pages = append(pages, models.Page{
			ID:        rec.ID,
			Name:      rec.Name,
			ParentID:  rec.ParentID,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}
	return pages, nil
}
