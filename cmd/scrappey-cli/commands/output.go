package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"scrappey-go/lib/scrappey"

	"github.com/jedib0t/go-pretty/v6/table"
)

// cells longer than this are truncated in table output
const maxCellLength = 120

// printResponse prints JSON responses indented or as a table of their top
// level fields, anything else is printed as it was received.
func printResponse(out io.Writer, res scrappey.Response, asTable bool) error {
	if asTable {
		fields, err := res.Fields()
		if err == nil {
			renderTable(out, fields)
			return nil
		}
	}

	var indented bytes.Buffer
	err := json.Indent(&indented, res, "", "  ")
	if err != nil {
		indented.Reset()
		indented.Write(res)
	}
	if indented.Len() > 0 && indented.Bytes()[indented.Len()-1] != '\n' {
		indented.WriteByte('\n')
	}
	_, err = indented.WriteTo(out)
	return err
}

func renderTable(out io.Writer, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, formatCell(fields[k])})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatCell(v any) string {
	var text string
	switch v := v.(type) {
	case string:
		text = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(encoded)
		}
	}
	runes := []rune(text)
	if len(runes) > maxCellLength {
		return string(runes[:maxCellLength]) + "..."
	}
	return text
}
