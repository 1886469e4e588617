// Package skillgap scores a candidate's declared skills against a job's
// required skills and detects skills in resume text.
package skillgap

import "strings"

// Score returns the percentage of jobSkills covered by candidateSkills
// (case-insensitive), plus the matched and missing job skills. A job with no
// skill list scores 0.
func Score(candidateSkills, jobSkills []string) (percent int, matched, missing []string) {
	if len(jobSkills) == 0 {
		return 0, nil, nil
	}

	have := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		have[normalize(s)] = true
	}

	for _, s := range jobSkills {
		if have[normalize(s)] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	percent = len(matched) * 100 / len(jobSkills)
	return percent, matched, missing
}

// knownSkills is the keyword list the local detector scans resume text for.
// The Gemini analyzer supersedes this when configured.
var knownSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Go", "C", "C++", "C#", "SQL",
	"HTML", "CSS", "React", "Angular", "Node.js", "Django", "Flask", "Spring",
	"MongoDB", "PostgreSQL", "MySQL", "Redis", "Docker", "Kubernetes", "AWS",
	"Azure", "GCP", "Git", "Linux", "Excel", "Tally", "Data Entry",
	"Communication", "Customer Service", "Sales", "Marketing", "Accounting",
	"Machine Learning", "Data Analysis",
}

// DetectSkills scans resume text for known skill keywords. Matches are
// word-boundary-insensitive substring hits over the lowercased text; good
// enough for the fallback path.
func DetectSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, s := range knownSkills {
		if strings.Contains(lower, strings.ToLower(s)) {
			found = append(found, s)
		}
	}
	return found
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
