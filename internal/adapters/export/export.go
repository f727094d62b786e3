// Package export writes session history as CSV, YAML or Markdown.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xvierd/tomato/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
)

// ParseFormat validates a format name. "markdown" and "yml" are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, yaml or md)", s)
}

// Row is one exported session.
type Row struct {
	Date    string `yaml:"date"`
	Time    string `yaml:"time"`
	Type    string `yaml:"type"`
	Minutes int    `yaml:"minutes"`
	Task    string `yaml:"task,omitempty"`
	Branch  string `yaml:"git_branch,omitempty"`
	Commit  string `yaml:"git_commit,omitempty"`
}

var header = []string{"date", "time", "type", "minutes", "task", "git_branch", "git_commit"}

// Rows flattens records. titles maps task IDs to titles; unknown IDs are
// exported as the raw ID.
func Rows(records []*domain.SessionRecord, titles map[string]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Date:    r.CompletedAt.Format(domain.DateLayout),
			Time:    r.CompletedAt.Format("15:04"),
			Type:    string(r.Type),
			Minutes: r.DurationMinutes,
			Branch:  r.GitBranch,
			Commit:  r.GitCommit,
		}
		if r.TaskID != nil {
			row.Task = *r.TaskID
			if title, ok := titles[*r.TaskID]; ok {
				row.Task = title
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Write renders rows to w in format.
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(rows))
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Date, r.Time, r.Type, strconv.Itoa(r.Minutes), r.Task, r.Branch, r.Commit}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"sessions": rows}); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// Markdown renders rows as a table followed by a focus total.
func Markdown(rows []Row) string {
	var b strings.Builder
	b.WriteString("# Session history\n\n")
	if len(rows) == 0 {
		b.WriteString("_No sessions recorded._\n")
		return b.String()
	}

	b.WriteString("| Date | Time | Session | Minutes | Task | Branch |\n")
	b.WriteString("|---|---|---|---:|---|---|\n")
	focus := 0
	for _, r := range rows {
		label := r.Type
		if st, err := domain.ParseSessionType(r.Type); err == nil {
			label = st.Label()
		}
		if r.Type == string(domain.SessionTypeWork) {
			focus += r.Minutes
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			r.Date, r.Time, label, r.Minutes, escapeCell(r.Task), escapeCell(r.Branch))
	}
	fmt.Fprintf(&b, "\n**Focus time:** %dh %02dm across %d sessions\n", focus/60, focus%60, len(rows))
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
