package canonical

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RawRecord is the heterogeneous, semi-structured input Canonicalize accepts.
// It mirrors the shape produced by decoding a JSON request body: string keys,
// values of string/number/bool/slice/map.
type RawRecord map[string]interface{}

var (
	leadingIntRe = regexp.MustCompile(`-?\d+`)
	bandRe       = regexp.MustCompile(`(?i)^\s*(\d+)\s*[kK]?\s*-\s*(\d+)\s*([kK]?)\s*$`)
)

var contractAliases = map[string]ContractType{
	"cdi":            ContractCDI,
	"permanent":      ContractCDI,
	"cdd":            ContractCDD,
	"fixed-term":     ContractCDD,
	"consultant":     ContractFreelance,
	"freelance":      ContractFreelance,
	"contractor":     ContractFreelance,
	"internship":     ContractInternship,
	"stage":          ContractInternship,
	"contrat pro":    ContractApprentice,
	"apprenticeship": ContractApprentice,
	"alternance":     ContractApprentice,
}

var remoteLexicon = []struct {
	substrings []string
	value      RemotePreference
}{
	{[]string{"full remote", "100% remote", "remote only", "télétravail total", "full-remote"}, RemoteFull},
	{[]string{"hybrid", "hybride", "partial remote", "télétravail partiel"}, RemoteHybrid},
	{[]string{"onsite", "on-site", "on site", "présentiel", "no remote"}, RemoteOnsite},
	{[]string{"remote"}, RemoteFull},
}

// CanonicalizeCandidate maps a heterogeneous record into a Candidate, or
// fails with InvalidInputError when "skills" is absent.
func CanonicalizeCandidate(raw RawRecord) (Candidate, error) {
	skills := normalizeSkillSet(raw["skills"])
	if len(skills) == 0 {
		return Candidate{}, &InvalidInputError{Field: "skills", Reason: "required, at least one skill must be present"}
	}

	c := Candidate{
		ID:                  stringField(raw, "id"),
		DisplayName:         stringField(raw, "display_name"),
		Skills:              skills,
		SoftSkills:          normalizeSkillSet(raw["soft_skills"]),
		YearsExperience:     normalizeExperience(raw["years_experience"]),
		Location:            normalizeLocation(stringField(raw, "location")),
		SalaryExpectation:   normalizeSalaryScalar(raw["salary_expectation"]),
		ContractTypes:       normalizeContractSet(raw["contract_types"]),
		RemotePreference:    normalizeRemotePreference(raw["remote_preference"]),
		TransportPreference: normalizeTransportMode(stringField(raw, "transport_preference")),
		DepartureTimeLocal:  stringField(raw, "departure_time_local"),
		MaxCommuteMinutes:   intFieldDefault(raw, "max_commute_minutes", 60),
		Priorities:          normalizePriorities(raw["priorities"]),
		Values:              normalizeTokenSet(raw["values"]),
		CulturePreferences:  normalizeTokenSet(raw["culture_preferences"]),
		Mobile:              boolField(raw, "mobile"),
	}
	if c.MaxCommuteMinutes <= 0 {
		c.MaxCommuteMinutes = 60
	}
	if c.TransportPreference == "" {
		c.TransportPreference = ModeDriving
	}
	return c, nil
}

// CanonicalizeJobPosting maps a heterogeneous record into a JobPosting, or
// fails with InvalidInputError when "title" or "required_skills" is absent.
func CanonicalizeJobPosting(raw RawRecord) (JobPosting, error) {
	title := stringField(raw, "title")
	if title == "" {
		return JobPosting{}, &InvalidInputError{Field: "title", Reason: "required"}
	}
	skills := normalizeSkillSet(raw["required_skills"])
	if len(skills) == 0 {
		return JobPosting{}, &InvalidInputError{Field: "required_skills", Reason: "required, at least one skill must be present"}
	}

	band, err := normalizeSalaryBand(raw["salary_band"])
	if err != nil {
		return JobPosting{}, err
	}

	contract := ContractCDI
	if cts := normalizeContractSet(raw["contract_type"]); len(cts) > 0 {
		contract = cts[0]
	}

	j := JobPosting{
		ID:                      stringField(raw, "id"),
		Title:                   title,
		Company:                 stringField(raw, "company"),
		RequiredSkills:          skills,
		DesiredSoftSkills:       normalizeSkillSet(raw["desired_soft_skills"]),
		RequiredExperienceYears: normalizeExperience(raw["required_experience_years"]),
		ContractType:            contract,
		Location:                normalizeLocation(stringField(raw, "location")),
		RemotePolicy:            normalizeRemotePolicy(stringField(raw, "remote_policy")),
		SalaryBand:              band,
		Benefits:                normalizeTokenSet(raw["benefits"]),
		CompanyCulture:          normalizeTokenSet(raw["company_culture"]),
	}
	return j, nil
}

// normalizeSkillSet splits on "," and ";", trims, case-folds for comparison
// while title-casing for display, drops tokens shorter than 2 characters,
// and deduplicates preserving first occurrence.
func normalizeSkillSet(v interface{}) []string {
	tokens := tokensFromAny(v)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if len(t) < 2 {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, titleCase(t))
	}
	return out
}

// normalizeTokenSet is like normalizeSkillSet but without the 2-char floor,
// used for values/culture/benefits tags where short tokens are legitimate.
func normalizeTokenSet(v interface{}) []string {
	tokens := tokensFromAny(v)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func tokensFromAny(v interface{}) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return splitOnCommaSemicolon(x)
	case []string:
		return x
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func splitOnCommaSemicolon(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

func titleCase(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		r := []rune(f)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}

// normalizeExperience extracts the first integer from a string, or clamps a
// numeric value to >= 0.
func normalizeExperience(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return maxFloat(0, x)
	case int:
		return maxFloat(0, float64(x))
	case string:
		if m := leadingIntRe.FindString(x); m != "" {
			n, _ := strconv.Atoi(m)
			return maxFloat(0, float64(n))
		}
		return 0
	default:
		return 0
	}
}

// normalizeSalaryScalar extracts the first integer, multiplying by 1000 when
// the literal contains "k"/"K".
func normalizeSalaryScalar(v interface{}) int {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return int(x)
	case int:
		return x
	case string:
		return parseSalaryLiteral(x)
	default:
		return 0
	}
}

func parseSalaryLiteral(s string) int {
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	if strings.ContainsAny(s, "kK") {
		n *= 1000
	}
	return n
}

// normalizeSalaryBand accepts {min,max}, a "min-max[K]" string, or a single
// scalar value expanded to +/-10%, enforcing min <= max.
func normalizeSalaryBand(v interface{}) (SalaryBand, error) {
	switch x := v.(type) {
	case nil:
		return SalaryBand{}, nil
	case map[string]interface{}:
		min := normalizeSalaryScalar(x["min"])
		max := normalizeSalaryScalar(x["max"])
		return orderBand(min, max), nil
	case RawRecord:
		min := normalizeSalaryScalar(x["min"])
		max := normalizeSalaryScalar(x["max"])
		return orderBand(min, max), nil
	case string:
		if m := bandRe.FindStringSubmatch(x); m != nil {
			min, _ := strconv.Atoi(m[1])
			max, _ := strconv.Atoi(m[2])
			if strings.EqualFold(m[3], "k") || strings.ContainsAny(x, "kK") {
				min *= 1000
				max *= 1000
			}
			return orderBand(min, max), nil
		}
		single := parseSalaryLiteral(x)
		if single == 0 {
			return SalaryBand{}, nil
		}
		return expandSingle(single), nil
	case float64:
		return expandSingle(int(x)), nil
	case int:
		return expandSingle(x), nil
	default:
		return SalaryBand{}, nil
	}
}

func expandSingle(v int) SalaryBand {
	delta := int(float64(v) * 0.10)
	return SalaryBand{Min: v - delta, Max: v + delta}
}

func orderBand(min, max int) SalaryBand {
	if min > max {
		min, max = max, min
	}
	return SalaryBand{Min: min, Max: max}
}

// normalizeContractSet maps free-form contract literals to the canonical
// enum, uppercasing the canonical form.
func normalizeContractSet(v interface{}) []ContractType {
	tokens := tokensFromAny(v)
	if s, ok := v.(string); ok && len(tokens) == 0 {
		tokens = []string{s}
	}
	seen := make(map[ContractType]struct{}, len(tokens))
	out := make([]ContractType, 0, len(tokens))
	for _, t := range tokens {
		key := strings.ToLower(strings.TrimSpace(t))
		ct, ok := contractAliases[key]
		if !ok {
			// Fall through: if it already is a canonical literal, uppercase it.
			upper := ContractType(strings.ToUpper(strings.TrimSpace(t)))
			if isKnownContract(upper) {
				ct = upper
			} else {
				continue
			}
		}
		if _, dup := seen[ct]; dup {
			continue
		}
		seen[ct] = struct{}{}
		out = append(out, ct)
	}
	return out
}

func isKnownContract(ct ContractType) bool {
	switch ct {
	case ContractCDI, ContractCDD, ContractFreelance, ContractInternship, ContractApprentice:
		return true
	}
	return false
}

// normalizeRemotePreference substring-matches against a fixed lexicon;
// unknown input maps to RemoteUnspecified.
func normalizeRemotePreference(v interface{}) RemotePreference {
	s, _ := v.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RemoteUnspecified
	}
	for _, entry := range remoteLexicon {
		for _, sub := range entry.substrings {
			if strings.Contains(s, sub) {
				return entry.value
			}
		}
	}
	return RemoteUnspecified
}

func normalizeRemotePolicy(s string) RemotePolicy {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "full") || s == "remote":
		return PolicyRemote
	case strings.Contains(s, "majority"):
		return PolicyHybridMajority
	case strings.Contains(s, "partial") || strings.Contains(s, "hybrid"):
		return PolicyHybridPartial
	default:
		return PolicyOnsite
	}
}

func normalizeTransportMode(s string) TransportMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transit":
		return ModeTransit
	case "walking", "walk":
		return ModeWalking
	case "cycling", "bicycling", "bike":
		return ModeBicycling
	case "driving", "car", "drive":
		return ModeDriving
	default:
		return ""
	}
}

// normalizeLocation trims, collapses whitespace, and capitalizes the first
// letter of each word, retaining the general shape for later geocoding.
func normalizeLocation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}

func normalizePriorities(v interface{}) Priorities {
	m, ok := v.(map[string]interface{})
	if !ok {
		if rr, ok2 := v.(RawRecord); ok2 {
			m = map[string]interface{}(rr)
		} else {
			return Priorities{}
		}
	}
	if len(m) == 0 {
		return Priorities{}
	}
	return Priorities{
		Evolution:    clampPriority(intFromAny(m["evolution"])),
		Compensation: clampPriority(intFromAny(m["compensation"])),
		Proximity:    clampPriority(intFromAny(m["proximity"])),
		Flexibility:  clampPriority(intFromAny(m["flexibility"])),
		set:          true,
	}
}

func clampPriority(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

func intFromAny(v interface{}) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(x))
		return n
	default:
		return 0
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func stringField(raw RawRecord, key string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolField(raw RawRecord, key string) bool {
	if v, ok := raw[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func intFieldDefault(raw RawRecord, key string, def int) int {
	if v, ok := raw[key]; ok {
		n := intFromAny(v)
		if n != 0 {
			return n
		}
	}
	return def
}

// SortedSkills returns a copy of skills sorted for stable comparisons in
// tests (symmetry under input permutation is a correctness invariant, not
// an output guarantee, so callers that need determinism sort explicitly).
func SortedSkills(skills []string) []string {
	out := make([]string, len(skills))
	copy(out, skills)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
