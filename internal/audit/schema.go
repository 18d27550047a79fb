package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"bidcheck/internal/report"
)

// ErrSchemaMismatch is returned when the model output does not match the report schema.
var ErrSchemaMismatch = errors.New("model output does not match the report schema")

const reportSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "overallRisk", "findings", "risks", "recommendations"],
  "properties": {
    "vendorName": {"type": "string"},
    "summary": {"type": "string"},
    "overallRisk": {"$ref": "#/definitions/severity"},
    "findings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["requirement", "status", "complianceScore", "risk"],
        "properties": {
          "requirement": {"type": "string", "minLength": 1},
          "bidResponse": {"type": "string"},
          "status": {"enum": ["compliant", "partial", "non_compliant", "missing"]},
          "complianceScore": {"type": "number", "minimum": 0, "maximum": 100},
          "risk": {"$ref": "#/definitions/severity"},
          "notes": {"type": "string"}
        }
      }
    },
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "severity"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "severity": {"$ref": "#/definitions/severity"},
          "description": {"type": "string"},
          "mitigation": {"type": "string"}
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}}
  },
  "definitions": {
    "severity": {"enum": ["low", "medium", "high", "critical"]}
  }
}`

var reportSchema = gojsonschema.NewStringLoader(reportSchemaJSON)

// ParseResponse pulls the candidate text out of a provider response and
// decodes it as a report.
func ParseResponse(body []byte) (*report.Report, error) {
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: response is not JSON: %v", ErrSchemaMismatch, err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrSchemaMismatch, resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("%w: no candidates in response", ErrSchemaMismatch)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty candidate (finish reason %s)", ErrSchemaMismatch, resp.Candidates[0].FinishReason)
	}
	return ParseReport(text)
}

// ParseReport validates text against the report schema and decodes it.
// Markdown code fences around the JSON are tolerated.
func ParseReport(text string) (*report.Report, error) {
	payload := stripCodeFence(text)

	result, err := gojsonschema.Validate(reportSchema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(issues, "; "))
	}

	var r report.Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return &r, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
