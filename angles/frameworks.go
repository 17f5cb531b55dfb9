package angles

import (
	"strings"

	"github.com/rajconnects/rss-to-linkedin/types"
)

var frameworkTriggers = map[types.Framework][]string{
	types.FrameworkSecondOrder:         {"impact", "ripple", "downstream", "knock-on", "consequence"},
	types.FrameworkValueChain:          {"supply chain", "logistics", "sourcing", "manufacturing", "procurement"},
	types.FrameworkNetworkEffects:      {"adoption", "platform", "ecosystem", "interoperab", "upi"},
	types.FrameworkRegulatoryArbitrage: {"jurisdiction", "offshore", "licence", "license", "sandbox"},
	types.FrameworkUnitEconomics:       {"margin", "cost", "fee", "pricing", "spread"},
	types.FrameworkHistoryRhymes:       {"decade", "history", "since 19", "since 20", "era"},
}

// Frameworks tags the candidate with at most two strategic frameworks,
// in catalog order for determinism.
func Frameworks(item *types.CandidateItem) []types.Framework {
	text := strings.ToLower(item.Title + " " + item.Summary)

	var tags []types.Framework
	for _, fw := range types.Frameworks() {
		for _, t := range frameworkTriggers[fw] {
			if strings.Contains(text, t) {
				tags = append(tags, fw)
				break
			}
		}
		if len(tags) == 2 {
			break
		}
	}
	return tags
}
