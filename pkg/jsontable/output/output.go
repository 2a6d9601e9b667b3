// Package output renders extracted tables as JSON.
package output

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
)

// Record is one data row keyed by column name, keeping column order.
type Record struct {
	keys   []string
	values []string
}

// Get returns the value of column key.
func (r Record) Get(key string) (string, bool) {
	for i, k := range r.keys {
		if k == key {
			return r.values[i], true
		}
	}
	return "", false
}

// Keys returns the column names in order.
func (r Record) Keys() []string {
	return r.keys
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records converts table rows into records. Tables without a header use
// Column1, Column2, ... as keys.
func Records(table *models.TableData) []Record {
	keys := table.Headers
	if !table.HasHeader || len(keys) == 0 {
		keys = make([]string, table.Cols)
		for i := range keys {
			keys[i] = "Column" + strconv.Itoa(i+1)
		}
	}

	records := make([]Record, 0, len(table.Data))
	for _, row := range table.Data {
		values := make([]string, len(keys))
		for i := range keys {
			if i < len(row) {
				values[i] = row[i]
			}
		}
		records = append(records, Record{keys: keys, values: values})
	}
	return records
}

// ToJSON encodes v, indented with two spaces when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
