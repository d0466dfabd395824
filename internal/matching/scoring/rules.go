// Package scoring implements the pure scoring primitives (C3): skills,
// experience, salary, proximity, contract, flexibility, and culture
// sub-scores, each returning a canonical.DimensionScore with an explanation.
package scoring

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is the configuration-driven document backing the Open Questions
// spec.md §9 leaves to the implementer: the synonym table, essential-skill
// markers, and intelligence-bonus detectors. Loaded once at startup;
// DefaultRules is the only built-in table, used when no file is loaded.
type Rules struct {
	SynonymGroups    [][]string            `yaml:"synonym_groups"`
	EssentialSkills  []string              `yaml:"essential_skills"`
	SimilarityFloor  float64               `yaml:"similarity_threshold"`
	IntelligenceBonuses []IntelligenceBonus `yaml:"intelligence_bonuses"`
	IntelligenceBonusCap float64            `yaml:"intelligence_bonus_cap"`

	synonymIndex map[string]string // token -> canonical group key
	essentialSet map[string]struct{}
}

// IntelligenceBonus names one Comprehensive-variant signal detector: a
// signal key, a point value and a label. The actual
// predicate logic lives in variants.EvaluateIntelligenceBonuses, keyed by
// Signal; this struct only carries the configuration-driven point value and
// label so the cap and wording stay data, not code.
type IntelligenceBonus struct {
	Signal string  `yaml:"signal"`
	Points float64 `yaml:"points"`
	Label  string  `yaml:"label"`
}

// LoadRules reads and indexes a rules document from path.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	r.index()
	return &r, nil
}

// DefaultRules returns a minimal built-in rules document, used when no
// configuration file is supplied (e.g. in unit tests).
func DefaultRules() *Rules {
	r := &Rules{
		SynonymGroups: [][]string{
			{"javascript", "js", "node", "nodejs"},
			{"postgresql", "postgres", "psql"},
			{"golang", "go"},
			{"kubernetes", "k8s"},
		},
		EssentialSkills: []string{},
		SimilarityFloor: 0.85,
		IntelligenceBonuses: []IntelligenceBonus{
			{Signal: "rapid_progression", Points: 5, Label: "rapid career progression detected"},
			{Signal: "specialization_match", Points: 5, Label: "specialization match"},
			{Signal: "leadership_markers", Points: 5, Label: "leadership markers present"},
		},
		IntelligenceBonusCap: 15,
	}
	r.index()
	return r
}

func (r *Rules) index() {
	r.synonymIndex = make(map[string]string)
	for _, group := range r.SynonymGroups {
		if len(group) == 0 {
			continue
		}
		key := strings.ToLower(group[0])
		for _, tok := range group {
			r.synonymIndex[strings.ToLower(tok)] = key
		}
	}
	r.essentialSet = make(map[string]struct{}, len(r.EssentialSkills))
	for _, s := range r.EssentialSkills {
		r.essentialSet[strings.ToLower(s)] = struct{}{}
	}
	if r.SimilarityFloor == 0 {
		r.SimilarityFloor = 0.85
	}
	if r.IntelligenceBonusCap == 0 {
		r.IntelligenceBonusCap = 15
	}
}

// synonymKey returns the canonical group key for a token, or the
// lower-cased token itself if it belongs to no group.
func (r *Rules) synonymKey(token string) string {
	lower := strings.ToLower(token)
	if key, ok := r.synonymIndex[lower]; ok {
		return key
	}
	return lower
}

// isEssential reports whether a required-skill token is marked essential.
func (r *Rules) isEssential(token string) bool {
	_, ok := r.essentialSet[strings.ToLower(token)]
	return ok
}
