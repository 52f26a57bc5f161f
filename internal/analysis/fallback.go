package analysis

// FallbackAnalysis 는 업스트림 실패 시 대신 내려가는 고정 분석이다.
// 사용자 쪽에서는 실패가 보이지 않아야 한다는 제품 정책을 따른다.
func FallbackAnalysis() WasteAnalysis {
	return WasteAnalysis{
		ItemName:   "Unknown Item",
		Material:   "Mixed materials",
		Category:   CategoryRecycle,
		Confidence: 0.5,
		Reuse: ReuseGuide{
			Ideas: []string{
				"Clean the item and repurpose it for storage",
				"Donate it if it is still in usable condition",
				"Use parts of it for a craft or garden project",
			},
			Difficulty:           "Easy",
			TimeNeeded:           "10-20 minutes",
			EnvironmentalBenefit: "Keeps one more item out of landfill",
		},
		Recycle: RecycleGuide{
			Instructions: []string{
				"Rinse the item and remove any food residue",
				"Check the local recycling rules for this material",
				"Place it in the appropriate recycling bin",
			},
			SafetyTips: []string{"Handle sharp edges with care"},
			DoNot:      []string{"Do not mix with general household waste"},
			CanRecycle: true,
		},
		CarbonSaved: "0.3 kg CO2",
		FunFact:     "Recycling one aluminium can saves enough energy to run a TV for three hours.",
	}
}
