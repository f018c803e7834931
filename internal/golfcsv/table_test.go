package golfcsv

import (
	"strings"
	"testing"

	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	testCases := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "plain", value: Text("Augusta"), expected: "Augusta"},
		{name: "comma", value: Text("Pebble Beach, CA"), expected: `"Pebble Beach, CA"`},
		{name: "quote", value: Text(`Bob "Longball" Smith`), expected: `"Bob ""Longball"" Smith"`},
		{name: "newline is not quoted", value: Text("a\nb"), expected: "a\nb"},
		{name: "leading space is kept", value: Text(" x"), expected: " x"},
		{name: "empty", value: Empty(), expected: ""},
		{name: "empty text", value: Text(""), expected: ""},
		{name: "number", value: Literal("72"), expected: "72"},
		{name: "zero", value: Literal("0"), expected: "0"},
		{name: "bool", value: Literal("false"), expected: "false"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Escape(test.value))
		})
	}
}

func TestTableWrite(t *testing.T) {
	table := NewTable(Schema{Kind: KindSummary, Fields: []string{"courseName", "strokes"}})
	require.NoError(t, table.Append(
		Row{Text("Pebble Beach, CA"), Literal("80")},
		Row{Text(`Bob "Longball" Smith`), Empty()},
	))
	require.Equal(t, 2, table.Len())
	require.Equal(t,
		"courseName,strokes\n"+
			"\"Pebble Beach, CA\",80\n"+
			"\"Bob \"\"Longball\"\" Smith\",\n",
		table.String(),
	)
}

func TestTableEmpty(t *testing.T) {
	table := NewTable(SummarySchema())
	require.Equal(t, strings.Join(summaryFields, ",")+"\n", table.String())
}

func TestTableRejectsRaggedRows(t *testing.T) {
	table := NewTable(SummarySchema())
	err := table.Append(Row{Text("only one")})
	require.Error(t, err)
	require.Equal(t, 0, table.Len())
}

// every row ends up with exactly as many cells as there are columns, no
// matter what the text contains
func TestTableCellCount(t *testing.T) {
	schema := Schema{Kind: KindSummary, Fields: []string{"a", "b", "c"}}
	table := NewTable(schema)
	for i := 0; i < 50; i++ {
		s, err := random.String(12)
		require.NoError(t, err)
		require.NoError(t, table.Append(Row{Text(s + ",\"" + s), Literal("1"), Text(s)}))
	}

	lines := strings.Split(strings.TrimSuffix(table.String(), "\n"), "\n")
	require.Len(t, lines, 51)
	for _, line := range lines[1:] {
		require.Len(t, splitCSVLine(line), 3, line)
	}
}

// splitCSVLine splits one line written by Table, honoring quoted cells.
func splitCSVLine(line string) []string {
	var cells []string
	var cell strings.Builder
	quoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '"' && i+1 < len(line) && line[i+1] == '"':
			cell.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			cells = append(cells, cell.String())
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	return append(cells, cell.String())
}
