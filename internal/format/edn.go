package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// recordKeys is the column order of a developer record. Keys outside it sort
// alphabetically after it.
var recordKeys = map[string]int{"id": 0, "nombre": 1, "edad": 2, "habilidades": 3}

// WriteEDN writes an EDN representation of v.
//
// Values go through JSON first so struct tags decide the key names. Numbers are
// written exactly as JSON produced them, so large ids survive unchanged.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	e := &ednWriter{w: out, pretty: pretty}
	e.value(x, 0)
	out.WriteByte('\n')
	return out.Flush()
}

type ednWriter struct {
	w      *bufio.Writer
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.w.WriteString("nil")
	case bool:
		e.w.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.w.WriteString(t.String())
	case string:
		e.w.WriteString(strconv.Quote(t))
	case []any:
		e.seq('[', ']', depth, len(t), func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := orderedKeys(t)
		e.seq('{', '}', depth, len(keys), func(i int) {
			e.w.WriteString(keyword(keys[i]))
			e.w.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.w.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// seq writes n items between open and close: space separated, or one per
// indented line when pretty.
func (e *ednWriter) seq(open, close byte, depth, n int, item func(i int)) {
	e.w.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.newline(depth + 1)
		case i > 0:
			e.w.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty && n > 0 {
		e.newline(depth)
	}
	e.w.WriteByte(close)
}

func (e *ednWriter) newline(depth int) {
	e.w.WriteByte('\n')
	e.w.WriteString(strings.Repeat("  ", depth))
}

func orderedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := recordKeys[keys[i]]
		rj, jok := recordKeys[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keyword(s string) string {
	return ":" + strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
