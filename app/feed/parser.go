package feed

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Parser turns a raw feed payload into an ordered list of candidate records.
//
// A payload is a JSON array of objects, possibly with one extra level of
// array nesting, which is flattened before processing. Records are
// deduplicated by app_id in a single order-preserving pass: the first record
// for each distinct app_id wins, and records with a missing or falsy app_id
// (null, empty string, 0, false) are dropped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("payload is not a JSON array")
	}

	// Flatten exactly one level of nesting.
	var flat []gjson.Result
	for _, elem := range doc.Array() {
		if elem.IsArray() {
			flat = append(flat, elem.Array()...)
		} else {
			flat = append(flat, elem)
		}
	}

	seen := make(map[string]bool)
	records := make([]gjson.Result, 0, len(flat))
	for _, record := range flat {
		key, ok := appIDKey(record)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, record)
	}

	return records, nil
}

// appIDKey returns the dedup key for a record, or false when the record has
// no usable app_id. The raw JSON token is used as the key so that a numeric
// 123 and a string "123" count as distinct ids.
func appIDKey(record gjson.Result) (string, bool) {
	appID := record.Get("app_id")
	if !appID.Exists() {
		return "", false
	}

	switch appID.Type {
	case gjson.Null, gjson.False:
		return "", false
	case gjson.Number:
		if appID.Num == 0 {
			return "", false
		}
	case gjson.String:
		if appID.Str == "" {
			return "", false
		}
	}

	return appID.Raw, true
}
