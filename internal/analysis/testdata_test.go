package analysis_test

import "strings"

const validRecordJSON = `{
  "summary": "A randomized trial of drug X versus placebo.",
  "key_findings": ["Drug X reduced symptoms", "No serious adverse events"],
  "methods": "Double-blind RCT with 240 participants.",
  "interpretation": "Moderate benefit in the short term.",
  "risks": "Mild nausea.",
  "limitations": "Short follow-up.",
  "lay_explanation": "The medicine helped a bit.",
  "expert_explanation": "Effect size d=0.4 with wide CI.",
  "comparison": "",
  "takeaway": "Promising but preliminary.",
  "full_report": "# Report\n\nFull text.",
  "study_type": "Randomized Controlled Trial",
  "evidence_strength": "Medium",
  "evidence_clarity": "High",
  "document_quality": "Moderate",
  "signal_tags": ["small sample", "industry funded"]
}`

func replaceField(s, old, repl string) string {
	return strings.Replace(s, old, repl, 1)
}
