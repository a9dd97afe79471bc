package vision

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema describes the shapes Response accepts. Anything else in the
// reply block is treated as a parse failure.
const responseSchema = `{
  "type": "object",
  "properties": {
    "title": {
      "type": ["object", "string", "null"],
      "properties": {
        "main":     {"type": ["string", "null"]},
        "subtitle": {"type": ["string", "null"]},
        "series":   {"type": ["string", "null"]},
        "volume":   {"type": ["string", "number", "null"]}
      }
    },
    "author": {"type": ["string", "null"]},
    "creators": {
      "type": ["object", "null"],
      "properties": {
        "authors": {
          "type": ["array", "null"],
          "items": {
            "type": ["object", "string"],
            "properties": {
              "name": {"type": ["string", "null"]},
              "role": {"type": ["string", "null"]}
            }
          }
        },
        "publisher": {"type": ["string", "null"]}
      }
    },
    "metadata": {
      "type": ["object", "null"],
      "properties": {
        "language": {"type": ["string", "null"]},
        "isbn":     {"type": ["string", "number", "null"]},
        "price":    {"type": ["string", "number", "null"]}
      }
    },
    "confidence": {
      "type": ["object", "number", "string", "null"],
      "properties": {
        "title":   {"type": ["number", "string", "null"]},
        "authors": {"type": ["number", "string", "null"]},
        "overall": {"type": ["number", "string", "null"]}
      }
    },
    "notes": {"type": ["string", "null"]}
  }
}`

var compiledSchema = jsonschema.MustCompileString("vision-response.json", responseSchema)

// decodeResponse validates block against the response schema and decodes it.
func decodeResponse(block string) (Response, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return Response{}, fmt.Errorf("invalid json: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return Response{}, fmt.Errorf("json does not match schema: %w", err)
	}

	var resp Response
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}
