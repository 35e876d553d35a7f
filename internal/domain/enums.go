package domain

// Role describes who the analysis is written for.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleClinician  Role = "Clinician"
	RoleResearcher Role = "Researcher"
	RoleOther      Role = "Other"
)

// ValidRoles lists accepted Role values.
var ValidRoles = map[Role]bool{
	RoleStudent:    true,
	RoleClinician:  true,
	RoleResearcher: true,
	RoleOther:      true,
}

// FocusArea steers which aspect of the documents the analysis emphasizes.
type FocusArea string

const (
	FocusGeneralOverview   FocusArea = "General Overview"
	FocusMethodology       FocusArea = "Methodology"
	FocusClinicalRelevance FocusArea = "Clinical Relevance"
	FocusStatisticalRigor  FocusArea = "Statistical Rigor"
	FocusBiasLimitations   FocusArea = "Bias & Limitations"
)

// ValidFocusAreas lists accepted FocusArea values.
var ValidFocusAreas = map[FocusArea]bool{
	FocusGeneralOverview:   true,
	FocusMethodology:       true,
	FocusClinicalRelevance: true,
	FocusStatisticalRigor:  true,
	FocusBiasLimitations:   true,
}

// Mode is a named preset trading thoroughness for latency.
type Mode string

const (
	ModeDeep  Mode = "deep"
	ModeQuick Mode = "quick"
)

// ValidModes lists accepted Mode values.
var ValidModes = map[Mode]bool{
	ModeDeep:  true,
	ModeQuick: true,
}

// EvidenceLevel grades evidence strength and clarity.
type EvidenceLevel string

const (
	EvidenceLow    EvidenceLevel = "Low"
	EvidenceMedium EvidenceLevel = "Medium"
	EvidenceHigh   EvidenceLevel = "High"
)

// DocumentQuality grades the overall quality of the submitted material.
type DocumentQuality string

const (
	QualityLimited  DocumentQuality = "Limited"
	QualityModerate DocumentQuality = "Moderate"
	QualityStrong   DocumentQuality = "Strong"
)

// TurnRole identifies the author of a chat turn.
type TurnRole string

const (
	TurnRoleUser  TurnRole = "user"
	TurnRoleModel TurnRole = "model"
)
