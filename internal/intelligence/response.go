package intelligence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelicanstate/constructhub/internal/llm"
)

// ErrNoFindings is returned when a response parses but lists nothing.
var ErrNoFindings = errors.New("research response contains no findings")

// ResearchPayload is the JSON object providers are asked to return.
type ResearchPayload struct {
	Permits           []PermitFinding `json:"permits"`
	CodeReferences    []CodeFinding   `json:"codeReferences"`
	KeyConsiderations []string        `json:"keyConsiderations"`
}

// PermitFinding is one permit suggested by a provider.
type PermitFinding struct {
	Name         string      `json:"name"`
	Authority    string      `json:"authority"`
	Required     Requirement `json:"required"`
	EstimatedFee flexString  `json:"estimatedFee"`
	Notes        string      `json:"notes"`
}

// CodeFinding is one code or ordinance reference suggested by a provider.
type CodeFinding struct {
	Code    string `json:"code"`
	Section string `json:"section"`
	Summary string `json:"summary"`
}

// Requirement records how certain a provider was that a permit applies.
// Models answer with booleans or with words, so both decode.
type Requirement string

// Definite reports whether the permit was marked as certainly required.
func (r Requirement) Definite() bool {
	switch strings.ToLower(strings.TrimSpace(string(r))) {
	case "true", "yes", "required":
		return true
	}
	return false
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*r = Requirement(data)
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("required: %w", err)
		}
		*r = Requirement(s)
	}
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString("$" + strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// ParseResearchResponse decodes the JSON object embedded in raw provider
// text. Entries without a name, code or text are dropped. A payload left
// with no entries is an error so the caller falls through to the next
// provider.
func ParseResearchResponse(raw string) (ResearchPayload, error) {
	payload, err := llm.ExtractJSON[ResearchPayload](raw, nil)
	if err != nil {
		return ResearchPayload{}, err
	}

	clean := ResearchPayload{}
	for _, p := range payload.Permits {
		if strings.TrimSpace(p.Name) != "" {
			clean.Permits = append(clean.Permits, p)
		}
	}
	for _, c := range payload.CodeReferences {
		if strings.TrimSpace(c.Code) != "" {
			clean.CodeReferences = append(clean.CodeReferences, c)
		}
	}
	for _, k := range payload.KeyConsiderations {
		if k = strings.TrimSpace(k); k != "" {
			clean.KeyConsiderations = append(clean.KeyConsiderations, k)
		}
	}

	if len(clean.Permits) == 0 && len(clean.CodeReferences) == 0 && len(clean.KeyConsiderations) == 0 {
		return ResearchPayload{}, ErrNoFindings
	}
	return clean, nil
}
