package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("ai: no JSON found in reply")

// ExtractArray returns the text between the first '[' and the last ']'.
func ExtractArray(reply string) (string, bool) {
	return between(reply, '[', ']')
}

// ExtractObject returns the text between the first '{' and the last '}'.
func ExtractObject(reply string) (string, bool) {
	return between(reply, '{', '}')
}

func between(s string, open, close byte) (string, bool) {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, close)
	if i < 0 || j <= i {
		return "", false
	}
	return s[i : j+1], true
}

// DecodeArray extracts the first JSON array in reply and unmarshals it into out.
func DecodeArray(reply string, out any) error {
	raw, ok := ExtractArray(reply)
	if !ok {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(raw), out)
}

// DecodeObject extracts the outermost JSON object in reply and unmarshals it into out.
func DecodeObject(reply string, out any) error {
	raw, ok := ExtractObject(reply)
	if !ok {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(raw), out)
}
