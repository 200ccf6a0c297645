package recommendation

import "fmt"

type friendlyName struct {
	title  string
	detail string
}

var friendlyNames = map[string]friendlyName{
	CauseGenerationOptimization: {
		title:  "Tune Domain Generation Settings",
		detail: "Several generation parameters are limiting yield. Review character set and label length together.",
	},
	CauseContentQuality: {
		title:  "Address Content Quality Warnings",
		detail: "Analyzed pages are raising warnings at an elevated rate. Review keyword sets and content filters.",
	},
	CauseQualityYield: {
		title:  "Improve High-Quality Domain Yield",
		detail: "Few analyzed domains reach the high-quality tier. Refine targeting before scaling the campaign.",
	},
	CauseValidationYield: {
		title:  "Improve Validation Yield",
		detail: "DNS and HTTP validation are rejecting a large share of candidates. Review generation patterns and persona settings.",
	},
}

func mergedText(cause string, members int) (string, string) {
	if n, ok := friendlyNames[cause]; ok {
		return n.title, n.detail
	}
	return fmt.Sprintf("Multiple %s Issues", cause),
		fmt.Sprintf("%d related recommendations were merged.", members)
}
