// Package format turns raw query results into human-readable text.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dbchat-dev/dbchat/dbquery"
)

const noResultsText = "The query was executed successfully but returned no results."

// Narrate summarizes a query result, or the error that produced no result,
// in a single sentence.
func Narrate(queryText string, result *dbquery.Result, err error) string {
	if err != nil {
		return fmt.Sprintf("Error executing query: %s", err)
	}
	if result == nil || len(result.Rows) == 0 {
		return noResultsText
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(queryText)), "select count") {
		first := result.Rows[0]
		for _, col := range result.Columns {
			if strings.Contains(strings.ToLower(col), "count") {
				// A nil count falls through to the generic row-count sentence.
				if v := first[col]; v != nil {
					return fmt.Sprintf("The query returned a count of %v.", v)
				}
				break
			}
		}
	}

	return fmt.Sprintf("The query returned %d rows.", len(result.Rows))
}

// PrettyRows renders the full row set as indented JSON for inclusion
// alongside the narration. On serialization failure it falls back to the raw
// textual representation.
func PrettyRows(rows []map[string]interface{}) string {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", rows)
	}
	return string(out)
}
