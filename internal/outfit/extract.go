package outfit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONFound means the text contains no opening or no closing
	// brace, so there is no candidate object to parse.
	ErrNoJSONFound = errors.New("no JSON object found in text")

	// ErrMalformedJSON means a candidate span was located but did not
	// parse as a JSON object.
	ErrMalformedJSON = errors.New("malformed JSON in text")
)

// Extract locates and parses the JSON object embedded in model output.
// The candidate span runs from the first "{" to the last "}", which
// tolerates prose before and after the object but not multiple
// interleaved objects. Absence of either brace is ErrNoJSONFound; a
// span that does not parse is ErrMalformedJSON.
func Extract(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 {
		return nil, ErrNoJSONFound
	}
	if end < start {
		// A lone "}" before the first "{" yields an empty span.
		return nil, fmt.Errorf("%w: closing brace precedes opening brace", ErrMalformedJSON)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return obj, nil
}
