package types

import "time"

// Dimension names one axis of the scoring rubric. The set is closed:
// unknown dimensions are rejected when configuration is loaded, not at
// scoring time.
type Dimension string

const (
	DimensionPillarRelevance     Dimension = "pillar_relevance"
	DimensionDataDensity         Dimension = "data_density"
	DimensionCounterintuitive    Dimension = "counterintuitive"
	DimensionStrategyAlignment   Dimension = "strategy_alignment"
	DimensionTimeliness          Dimension = "timeliness"
	DimensionPractitionerUtility Dimension = "practitioner_utility"
)

// Dimensions returns the full closed dimension set in a fixed order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionPillarRelevance,
		DimensionDataDensity,
		DimensionCounterintuitive,
		DimensionStrategyAlignment,
		DimensionTimeliness,
		DimensionPractitionerUtility,
	}
}

// ValidDimension reports whether d belongs to the closed dimension set.
func ValidDimension(d Dimension) bool {
	for _, known := range Dimensions() {
		if d == known {
			return true
		}
	}
	return false
}

// Dimension scores are bounded integers.
const (
	DimensionScoreMin = 1
	DimensionScoreMax = 5
)

// ScoreVector is the result of scoring one candidate under one weight
// profile. Totals are only comparable across candidates scored under the
// same weights.
type ScoreVector struct {
	DimensionScores map[Dimension]int     `json:"dimension_scores"`
	Weights         map[Dimension]float64 `json:"weights"`
	Total           float64               `json:"total"`
}

// Angle is a fixed storytelling structure applied to a selected candidate.
type Angle string

const (
	AngleDataBomb           Angle = "data_bomb"
	AnglePractitionerSignal Angle = "practitioner_signal"
	AngleContrarianReframe  Angle = "contrarian_reframe"
	AngleHistoryArc         Angle = "history_arc"
	AngleForwardLook        Angle = "forward_look"
	AngleFirstPrinciples    Angle = "first_principles"
)

// Angles returns the full closed angle catalog in a fixed order.
func Angles() []Angle {
	return []Angle{
		AngleDataBomb,
		AnglePractitionerSignal,
		AngleContrarianReframe,
		AngleHistoryArc,
		AngleForwardLook,
		AngleFirstPrinciples,
	}
}

// Framework is an optional strategic-framework tag, orthogonal to angle.
// Assignments carry zero to two of them.
type Framework string

const (
	FrameworkSecondOrder         Framework = "second_order_effects"
	FrameworkValueChain          Framework = "value_chain"
	FrameworkNetworkEffects      Framework = "network_effects"
	FrameworkRegulatoryArbitrage Framework = "regulatory_arbitrage"
	FrameworkUnitEconomics       Framework = "unit_economics"
	FrameworkHistoryRhymes       Framework = "history_rhymes"
)

// Frameworks returns the closed framework-tag catalog in a fixed order.
func Frameworks() []Framework {
	return []Framework{
		FrameworkSecondOrder,
		FrameworkValueChain,
		FrameworkNetworkEffects,
		FrameworkRegulatoryArbitrage,
		FrameworkUnitEconomics,
		FrameworkHistoryRhymes,
	}
}

// AngleAssignment pairs a selected candidate with the storytelling angle
// it will be rendered under. Produced by the selector, consumed by the
// render layer and the memory writer.
type AngleAssignment struct {
	Item       *CandidateItem `json:"item"`
	Score      ScoreVector    `json:"score"`
	Angle      Angle          `json:"angle"`
	Pillar     string         `json:"pillar"`
	Hook       string         `json:"hook"`
	Frameworks []Framework    `json:"frameworks,omitempty"`
}

// MemoryRecord is one persisted, previously finalized selection. Immutable
// once written except for the Published flag, which flips out-of-band when
// the archive layer confirms publication.
type MemoryRecord struct {
	ID            string      `json:"id"`
	Date          string      `json:"date"` // YYYY-MM-DD
	PostIndex     int         `json:"post_index"`
	Pillar        string      `json:"pillar"`
	ArticleID     string      `json:"article_id"`
	ArticleTitle  string      `json:"article_title"`
	ArticleURL    string      `json:"article_url"`
	SourceName    string      `json:"source_name"`
	AngleUsed     Angle       `json:"angle_used"`
	HookText      string      `json:"hook_text"`
	FrameworkTags []Framework `json:"framework_tags,omitempty"`
	Published     bool        `json:"published"`
	CreatedAt     time.Time   `json:"created_at"`
}
