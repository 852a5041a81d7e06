package bga

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DecodeSessionExport reads one table-export document. An unusable envelope
// is a single ParseError for the document; bad tables fail one at a time and
// leave their siblings intact.
func DecodeSessionExport(r io.Reader, document string, m SessionMapping) ([]TableExport, []error) {
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, []error{NewParseError(document, "", "", "malformed session export: %v", err)}
	}

	dataRaw, ok := envelope[m.DataKey]
	if !ok {
		return nil, []error{NewParseError(document, "", m.DataKey, "missing envelope key")}
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(dataRaw, &data); err != nil {
		return nil, []error{NewParseError(document, "", m.DataKey, "not an object: %v", err)}
	}
	tablesRaw, ok := data[m.TablesKey]
	if !ok {
		return nil, []error{NewParseError(document, "", m.TablesKey, "missing envelope key")}
	}
	var tables []map[string]interface{}
	if err := json.Unmarshal(tablesRaw, &tables); err != nil {
		return nil, []error{NewParseError(document, "", m.TablesKey, "not an array: %v", err)}
	}

	var out []TableExport
	var errs []error
	for i, table := range tables {
		export, err := decodeTable(table, document, i, m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, export)
	}
	return out, errs
}

func decodeTable(table map[string]interface{}, document string, index int, m SessionMapping) (TableExport, error) {
	blockRef := fmt.Sprintf("table %d", index)
	var out TableExport

	out.TableID = stringField(table, m.TableIDKey)
	if out.TableID == "" {
		return out, NewParseError(document, blockRef, m.TableIDKey, "missing or empty")
	}
	blockRef = "table " + out.TableID

	out.GameID = stringField(table, m.GameIDKey)
	out.GameName = stringField(table, m.GameNameKey)

	if start := stringField(table, m.StartKey); start != "" {
		unix, err := strconv.ParseInt(start, 10, 64)
		if err != nil {
			return out, NewParseError(document, blockRef, m.StartKey, "not a unix timestamp: %q", start)
		}
		out.PlayDate = time.Unix(unix, 0).UTC()
	}

	names := splitJoined(stringField(table, m.NamesKey))
	if len(names) == 0 {
		return out, NewParseError(document, blockRef, m.NamesKey, "missing or empty")
	}
	out.PlayerNames = names

	scores, err := splitJoinedInts(stringField(table, m.ScoresKey))
	if err != nil {
		return out, NewParseError(document, blockRef, m.ScoresKey, "%v", err)
	}
	ranks, err := splitJoinedInts(stringField(table, m.RanksKey))
	if err != nil {
		return out, NewParseError(document, blockRef, m.RanksKey, "%v", err)
	}
	if len(ranks) != len(names) {
		return out, NewParseError(document, blockRef, m.RanksKey, "%d ranks for %d players", len(ranks), len(names))
	}
	out.Scores = scores
	out.Ranks = ranks
	return out, nil
}

// stringField renders a table value as a string whether the export wrote it
// as a string or a number.
func stringField(table map[string]interface{}, key string) string {
	v, ok := table[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitJoinedInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
