package vision

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Response is the reply schema requested from the model. Every field is optional.
// The flat shape {"title": "...", "author": "...", "confidence": 80} is accepted too.
type Response struct {
	Title      TitleBlock      `json:"title"`
	Author     text            `json:"author"`
	Creators   Creators        `json:"creators"`
	Metadata   Metadata        `json:"metadata"`
	Confidence ConfidenceBlock `json:"confidence"`
	Notes      text            `json:"notes"`
}

// TitleBlock groups the title fields.
type TitleBlock struct {
	Main     text `json:"main"`
	Subtitle text `json:"subtitle"`
	Series   text `json:"series"`
	Volume   text `json:"volume"`
}

// UnmarshalJSON accepts either the object form or a bare string used as the main title.
func (t *TitleBlock) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	if b[0] != '{' {
		var main text
		if err := json.Unmarshal(b, &main); err != nil {
			return err
		}
		*t = TitleBlock{Main: main}
		return nil
	}
	type plain TitleBlock
	return json.Unmarshal(b, (*plain)(t))
}

// Creators lists the people credited on the page.
type Creators struct {
	Authors   []Creator `json:"authors"`
	Publisher text      `json:"publisher"`
}

// Creator is one credited person with an optional role.
type Creator struct {
	Name text `json:"name"`
	Role text `json:"role"`
}

// UnmarshalJSON accepts a bare string as a creator without role.
func (c *Creator) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	if b[0] != '{' {
		var name text
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*c = Creator{Name: name}
		return nil
	}
	type plain Creator
	return json.Unmarshal(b, (*plain)(c))
}

// Metadata holds the publication details read from the page.
type Metadata struct {
	Language text `json:"language"`
	ISBN     text `json:"isbn"`
	Price    text `json:"price"`
}

// ConfidenceBlock holds either a single top-level score or per-field scores.
type ConfidenceBlock struct {
	TopLevel *float64
	Title    *float64
	Authors  *float64
	Overall  *float64
}

func (c *ConfidenceBlock) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	if b[0] != '{' {
		var n number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		c.TopLevel = n.ptr
		return nil
	}
	var obj struct {
		Title   number `json:"title"`
		Authors number `json:"authors"`
		Overall number `json:"overall"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Title, c.Authors, c.Overall = obj.Title.ptr, obj.Authors.ptr, obj.Overall.ptr
	return nil
}

// text decodes strings, numbers and booleans into a trimmed string. null and the
// literal "null" decode to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*t = ""
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		s = ""
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		s = ""
	}
	*t = text(s)
	return nil
}

func (t text) String() string { return string(t) }

// number decodes a JSON number or a numeric string such as "85" or "85%".
type number struct {
	ptr *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		n.ptr = &x
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n.ptr = &f
		}
	}
	return nil
}

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
