package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/tomato/internal/domain"
	"gopkg.in/yaml.v3"
)

func sampleRows(t *testing.T) []Row {
	t.Helper()
	taskID := "task-1"
	work, err := domain.NewSessionRecord(domain.SessionTypeWork, 25, &taskID)
	require.NoError(t, err)
	work.CompletedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	work.SetGitContext("main", "abc1234")

	orphan := "gone"
	other, err := domain.NewSessionRecord(domain.SessionTypeWork, 50, &orphan)
	require.NoError(t, err)
	other.CompletedAt = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	brk, err := domain.NewSessionRecord(domain.SessionTypeShortBreak, 5, nil)
	require.NoError(t, err)
	brk.CompletedAt = time.Date(2026, 3, 1, 9, 35, 0, 0, time.UTC)

	return Rows([]*domain.SessionRecord{work, other, brk}, map[string]string{"task-1": "Write | docs"})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "YML": FormatYAML, "markdown": FormatMarkdown, "md": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestRows(t *testing.T) {
	rows := sampleRows(t)
	require.Len(t, rows, 3)
	assert.Equal(t, "Write | docs", rows[0].Task)
	assert.Equal(t, "gone", rows[1].Task, "unknown ids are kept")
	assert.Empty(t, rows[2].Task)
	assert.Equal(t, "09:30", rows[0].Time)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRows(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"2026-03-01", "09:30", "work", "25", "Write | docs", "main", "abc1234"}, records[1])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleRows(t)))

	var doc struct {
		Sessions []Row `yaml:"sessions"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Sessions, 3)
	assert.Equal(t, "abc1234", doc.Sessions[0].Commit)
	assert.Equal(t, 50, doc.Sessions[1].Minutes)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRows(t))
	assert.Contains(t, md, `| Write \| docs |`)
	assert.Contains(t, md, "Short Break")
	assert.Contains(t, md, "**Focus time:** 1h 15m across 3 sessions")
	assert.Equal(t, 3, strings.Count(md, "| 2026-03-01 |"))

	assert.Contains(t, Markdown(nil), "No sessions recorded")
}
