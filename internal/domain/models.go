package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EncodedPart is one file in transport-ready form.
type EncodedPart struct {
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type"`
	Data      string `json:"-"`
	Size      int64  `json:"size"`
	Pages     int    `json:"pages,omitempty"`
}

// SubmissionOutcome is the per-file result of encoding. Part is nil when the
// file was rejected, in which case Reason says why.
type SubmissionOutcome struct {
	FileName string
	Part     *EncodedPart
	Reason   string
}

// Fulfilled reports whether the file encoded successfully.
func (o SubmissionOutcome) Fulfilled() bool {
	return o.Part != nil
}

// AnalysisOptions is the caller-supplied configuration for one analysis.
type AnalysisOptions struct {
	Role      Role      `json:"role"`
	FocusArea FocusArea `json:"focus_area"`
	Mode      Mode      `json:"mode"`
	Notes     string    `json:"notes,omitempty"`
}

// Validate rejects unknown enum values.
func (o AnalysisOptions) Validate() error {
	if !ValidRoles[o.Role] {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidOptions, o.Role)
	}
	if !ValidFocusAreas[o.FocusArea] {
		return fmt.Errorf("%w: unknown focus area %q", ErrInvalidOptions, o.FocusArea)
	}
	if !ValidModes[o.Mode] {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, o.Mode)
	}
	return nil
}

// GroundingURL is one cited web source.
type GroundingURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AnalysisRecord is the normalized result of an analysis.
type AnalysisRecord struct {
	Summary            string          `json:"summary"`
	KeyFindings        []string        `json:"key_findings"`
	Methods            string          `json:"methods"`
	Interpretation     string          `json:"interpretation"`
	Risks              string          `json:"risks"`
	Limitations        string          `json:"limitations"`
	LayExplanation     string          `json:"lay_explanation"`
	ExpertExplanation  string          `json:"expert_explanation"`
	Comparison         string          `json:"comparison"`
	Takeaway           string          `json:"takeaway"`
	FullReport         string          `json:"full_report"`
	StudyType          string          `json:"study_type"`
	EvidenceStrength   EvidenceLevel   `json:"evidence_strength"`
	EvidenceClarity    EvidenceLevel   `json:"evidence_clarity"`
	DocumentQuality    DocumentQuality `json:"document_quality"`
	SignalTags         []string        `json:"signal_tags"`
	ProcessingWarnings []string        `json:"processing_warnings,omitempty"`
	GroundingURLs      []GroundingURL  `json:"grounding_urls,omitempty"`
}

// ChatTurn is one message in a chat transcript.
type ChatTurn struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	AnalysisID *uuid.UUID `db:"analysis_id" json:"analysis_id,omitempty"`
	Role       TurnRole   `db:"role" json:"role"`
	Text       string     `db:"text" json:"text"`
	Timestamp  time.Time  `db:"created_at" json:"timestamp"`
}

// NewChatTurn creates a turn stamped with a fresh id and the current time.
func NewChatTurn(role TurnRole, text string) ChatTurn {
	return ChatTurn{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// SourceFile describes one submitted file as stored alongside an analysis.
type SourceFile struct {
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	Included  bool   `json:"included"`
	Reason    string `json:"reason,omitempty"`
	S3Key     string `json:"s3_key,omitempty"`
}

// Analysis is the persisted envelope around an AnalysisRecord.
type Analysis struct {
	ID        uuid.UUID       `json:"id"`
	Options   AnalysisOptions `json:"options"`
	Sources   []SourceFile    `json:"sources"`
	Record    *AnalysisRecord `json:"record"`
	Model     string          `json:"model"`
	CreatedAt time.Time       `json:"created_at"`
}
