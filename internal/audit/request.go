package audit

import (
	"fmt"

	"google.golang.org/genai"

	"bidcheck/internal/report"
)

const systemPrompt = `You are a senior procurement analyst. You compare a vendor's bid against the buyer's request for quote (RFQ).

For every distinct requirement in the RFQ, decide whether the bid satisfies it:
- "compliant": fully addressed with evidence in the bid
- "partial": addressed with gaps, caveats or weaker terms
- "non_compliant": the bid contradicts or fails the requirement
- "missing": the bid does not address the requirement at all

Give each finding a complianceScore between 0 and 1 and a risk level (low, medium, high, critical).
Then list the commercial, legal and delivery risks you see, with a mitigation for each, and finish with concrete recommendations for the buyer.
Quote the bid where possible. Do not invent content that is not in the documents.
Respond only with JSON matching the provided schema.`

// GenerateRequest is the body posted to the edge service's generate endpoint
// and relayed verbatim to the model.
type GenerateRequest struct {
	Contents          []*genai.Content  `json:"contents"`
	SystemInstruction *genai.Content    `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerationConfig is the subset of model generation settings the audit uses.
type GenerationConfig struct {
	Temperature      *float32      `json:"temperature,omitempty"`
	ResponseMIMEType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *genai.Schema `json:"responseSchema,omitempty"`
}

// BuildRequest assembles the audit request for the two extracted documents.
func BuildRequest(rfqText, bidText string) *GenerateRequest {
	prompt := fmt.Sprintf("REQUEST FOR QUOTE (RFQ):\n<<<\n%s\n>>>\n\nVENDOR BID:\n<<<\n%s\n>>>", rfqText, bidText)
	return &GenerateRequest{
		Contents:          []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(systemPrompt)}},
		GenerationConfig: &GenerationConfig{
			Temperature:      genai.Ptr[float32](0.2),
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	}
}

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ResponseSchema describes report.Report in the model's schema dialect.
func ResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	severity := &genai.Schema{Type: genai.TypeString, Enum: enumOf(report.Severities)}

	finding := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"requirement": str("The RFQ requirement being assessed"),
			"bidResponse": str("What the bid says about it"),
			"status":      {Type: genai.TypeString, Enum: enumOf(report.Statuses)},
			"complianceScore": {
				Type:    genai.TypeNumber,
				Minimum: genai.Ptr[float64](0),
				Maximum: genai.Ptr[float64](1),
			},
			"risk":  severity,
			"notes": str("Gaps, caveats or evidence"),
		},
		Required:         []string{"requirement", "bidResponse", "status", "complianceScore", "risk"},
		PropertyOrdering: []string{"requirement", "bidResponse", "status", "complianceScore", "risk", "notes"},
	}

	risk := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       str("Short risk title"),
			"severity":    severity,
			"description": str("Why this is a risk"),
			"mitigation":  str("How the buyer can reduce it"),
		},
		Required:         []string{"title", "severity", "description"},
		PropertyOrdering: []string{"title", "severity", "description", "mitigation"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"vendorName":      str("Vendor named in the bid"),
			"summary":         str("Executive summary of the evaluation"),
			"overallRisk":     severity,
			"findings":        {Type: genai.TypeArray, Items: finding},
			"risks":           {Type: genai.TypeArray, Items: risk},
			"recommendations": {Type: genai.TypeArray, Items: str("")},
		},
		Required:         []string{"summary", "overallRisk", "findings", "risks", "recommendations"},
		PropertyOrdering: []string{"vendorName", "summary", "overallRisk", "findings", "risks", "recommendations"},
	}
}
