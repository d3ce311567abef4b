package rag

import (
	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
)

// ScoreConfidence rates an answer by its supporting matches. The top score is
// the base; having several matches and having them agree with the top each add
// up to 0.1. Matches are assumed sorted descending by score.
func ScoreConfidence(matches []ragModel.VectorMatch) float64 {
	if len(matches) == 0 {
		return config.NoMatchConfidence
	}

	top := matches[0].Score

	countFactor := float64(len(matches)) / 3
	if countFactor > 1 {
		countFactor = 1
	}
	confidence := top + countFactor*0.1

	if top > 0 {
		var sum float64
		for _, m := range matches {
			sum += m.Score
		}
		avg := sum / float64(len(matches))
		confidence += (avg / top) * 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < config.NoMatchConfidence {
		confidence = config.NoMatchConfidence
	}
	return confidence
}
