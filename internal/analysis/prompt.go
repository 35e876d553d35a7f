package analysis

import (
	"fmt"
	"strings"

	"evidencelens/internal/domain"
)

// JSONOnlyInstruction closes every analysis prompt.
const JSONOnlyInstruction = `Return ONLY a single valid JSON object with no markdown formatting, no code fences, no explanation before or after it.`

// BuildAnalysisPrompt returns the instruction block for an analysis request.
func BuildAnalysisPrompt(opts domain.AnalysisOptions, parts []domain.EncodedPart) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert evidence appraisal assistant. Critically analyze the attached document(s) and produce a structured appraisal.

`)
	fmt.Fprintf(&sb, "Audience role: %s\n", opts.Role)
	fmt.Fprintf(&sb, "Focus area: %s\n", opts.FocusArea)
	fmt.Fprintf(&sb, "Analysis mode: %s\n", opts.Mode)
	if strings.TrimSpace(opts.Notes) != "" {
		fmt.Fprintf(&sb, "Additional notes from the user:\n%s\n", opts.Notes)
	}

	fmt.Fprintf(&sb, "\nDocuments provided (%d):\n", len(parts))
	for i, p := range parts {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, p.FileName, p.MediaType)
	}

	sb.WriteString(`
IMPORTANT INSTRUCTIONS:
- Tailor "lay_explanation" to a non-specialist and "expert_explanation" to the audience role above.
- Weight the whole appraisal toward the focus area above.
- If more than one document is provided, use "comparison" to contrast them; otherwise leave it empty.
- "evidence_strength" and "evidence_clarity" must be exactly one of "Low", "Medium", "High".
- "document_quality" must be exactly one of "Limited", "Moderate", "Strong".
- "signal_tags" is a short list of 2-6 word tags describing notable strengths or red flags.
- "full_report" is a complete markdown report covering every section above.

The JSON object must follow this schema:
{
  "summary": "",
  "key_findings": [""],
  "methods": "",
  "interpretation": "",
  "risks": "",
  "limitations": "",
  "lay_explanation": "",
  "expert_explanation": "",
  "comparison": "",
  "takeaway": "",
  "full_report": "",
  "study_type": "",
  "evidence_strength": "Low|Medium|High",
  "evidence_clarity": "Low|Medium|High",
  "document_quality": "Limited|Moderate|Strong",
  "signal_tags": [""]
}

`)
	sb.WriteString(JSONOnlyInstruction)
	return sb.String()
}
