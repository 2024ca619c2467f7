// Package security builds a vault-wide security report from stored items
// and their security records.
package security

import (
	"fmt"
	"sort"

	"github.com/passguard/passguard/pkg/strength"
	"github.com/passguard/passguard/pkg/vault"
)

// IssueType identifies the type of security issue.
type IssueType string

const (
	// IssueWeakPassword indicates a password with insufficient strength.
	IssueWeakPassword IssueType = "weak"
	// IssueDuplicatePassword indicates a password reused across items.
	IssueDuplicatePassword IssueType = "duplicate"
	// IssueCompromised indicates an item flagged by a breach check.
	IssueCompromised IssueType = "compromised"
)

// Severity indicates the urgency of a security issue.
type Severity string

const (
	// SeverityCritical requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityWarning should be addressed soon.
	SeverityWarning Severity = "warning"
)

// Issue is a single finding about a stored item.
type Issue struct {
	Type     IssueType `json:"type"`
	Severity Severity  `json:"severity"`
	ObjectID int64     `json:"object_id"`
	Tag      string    `json:"tag"`
	Detail   string    `json:"detail"`
}

// Components breaks down the overall score into categories.
// Strength contributes up to 40 points, uniqueness and breach exposure up
// to 30 each (total: 100).
type Components struct {
	Strength   int `json:"strength"`
	Uniqueness int `json:"uniqueness"`
	Exposure   int `json:"exposure"`
}

// Report is the overall security assessment of a vault.
type Report struct {
	Overall     int        `json:"overall"`
	Components  Components `json:"components"`
	Issues      []Issue    `json:"issues"`
	Suggestions []string   `json:"suggestions"`
}

// record pairs an item with its security row.
type record struct {
	item vault.Item
	sec  vault.SecurityRecord
}

// Analyze builds a security report for every non-trashed item in the vault.
// The vault must be unlocked.
func Analyze(v *vault.Vault) (*Report, error) {
	items, err := v.ListItems()
	if err != nil {
		return nil, err
	}

	var records []record
	for _, item := range items {
		// Only password items carry a meaningful secret to assess.
		if item.Type != vault.TypePassword {
			continue
		}
		sec, err := v.GetSecurity(item.ObjectID)
		if err != nil {
			return nil, err
		}
		records = append(records, record{item: item, sec: *sec})
	}

	report := &Report{}
	if len(records) == 0 {
		report.Overall = 100
		report.Components = Components{Strength: 40, Uniqueness: 30, Exposure: 30}
		return report, nil
	}

	report.Components.Strength = strengthComponent(records, report)
	report.Components.Uniqueness = uniquenessComponent(records, report)
	report.Components.Exposure = exposureComponent(records, report)
	report.Overall = report.Components.Strength +
		report.Components.Uniqueness + report.Components.Exposure

	sort.Slice(report.Issues, func(i, j int) bool {
		if report.Issues[i].Severity != report.Issues[j].Severity {
			return report.Issues[i].Severity == SeverityCritical
		}
		return report.Issues[i].ObjectID < report.Issues[j].ObjectID
	})
	report.Suggestions = buildSuggestions(report.Issues)
	return report, nil
}

// strengthComponent scores average password complexity (0-40) and records
// weak-password issues.
func strengthComponent(records []record, report *Report) int {
	total := 0
	for _, r := range records {
		total += r.sec.Complexity
		if r.sec.Complexity <= 1 {
			report.Issues = append(report.Issues, Issue{
				Type:     IssueWeakPassword,
				Severity: SeverityWarning,
				ObjectID: r.item.ObjectID,
				Tag:      r.item.Tag,
				Detail:   fmt.Sprintf("password strength %d/%d", r.sec.Complexity, strength.MaxScore),
			})
		}
	}
	return total * 40 / (len(records) * strength.MaxScore)
}

// uniquenessComponent scores the share of unique passwords (0-30) and
// records duplicate groups.
func uniquenessComponent(records []record, report *Report) int {
	groups, err := findDuplicates(records)
	if err != nil {
		// A failed duplicate scan only loses its component points.
		return 0
	}

	duplicated := 0
	for _, group := range groups {
		duplicated += group.Count
		for i, id := range group.ObjectIDs {
			report.Issues = append(report.Issues, Issue{
				Type:     IssueDuplicatePassword,
				Severity: SeverityWarning,
				ObjectID: id,
				Tag:      group.Tags[i],
				Detail:   fmt.Sprintf("password shared with %d other items", group.Count-1),
			})
		}
	}

	unique := len(records) - duplicated
	if unique < 0 {
		unique = 0
	}
	return unique * 30 / len(records)
}

// exposureComponent scores the share of items not flagged as compromised
// (0-30) and records compromised issues.
func exposureComponent(records []record, report *Report) int {
	compromised := 0
	for _, r := range records {
		if r.sec.Compromised {
			compromised++
			report.Issues = append(report.Issues, Issue{
				Type:     IssueCompromised,
				Severity: SeverityCritical,
				ObjectID: r.item.ObjectID,
				Tag:      r.item.Tag,
				Detail:   "flagged by a breach check",
			})
		}
	}
	return (len(records) - compromised) * 30 / len(records)
}

func buildSuggestions(issues []Issue) []string {
	counts := make(map[IssueType]int)
	for _, issue := range issues {
		counts[issue.Type]++
	}

	var suggestions []string
	if n := counts[IssueCompromised]; n > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Rotate %d compromised passwords immediately", n))
	}
	if n := counts[IssueDuplicatePassword]; n > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Replace %d reused passwords with unique ones (try 'passguard generate')", n))
	}
	if n := counts[IssueWeakPassword]; n > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("Strengthen %d weak passwords", n))
	}
	return suggestions
}
