// Package observability provides human-readable output for CLI ranking results.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of entries to display in lists
	maxItemsToShow = 10
)

// Printer renders ranking results as text boxes.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print renders any ranking result type. It reports false for unsupported values.
func (p *Printer) Print(v any) bool {
	switch r := v.(type) {
	case []types.JobRecommendation:
		p.PrintJobRecommendations(r)
	case []types.ResumeRecommendation:
		p.PrintResumeRecommendations(r)
	case []types.JobMatch:
		p.PrintJobMatches(r)
	case []types.CandidateMatch:
		p.PrintCandidateMatches(r)
	case *types.KeywordRanking:
		p.PrintKeywordRanking(r)
	default:
		return false
	}
	return true
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// moreLine returns the "... and N more" trailer, or "" when everything was shown.
func moreLine(total int, noun string) string {
	if total <= maxItemsToShow {
		return ""
	}
	return fmt.Sprintf("\n... and %d more %s", total-maxItemsToShow, noun)
}

func emptyOr(content, empty string) string {
	if content == "" {
		return empty
	}
	return content
}

// PrintJobRecommendations outputs embedding-ranked jobs.
func (p *Printer) PrintJobRecommendations(recs []types.JobRecommendation) {
	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := recs[i]
		sb.WriteString(fmt.Sprintf("#%-2d %.4f  %s\n", i+1, r.Score, r.Title))
		sb.WriteString(fmt.Sprintf("    %s", r.JobID))
		if r.Location != "" {
			sb.WriteString(fmt.Sprintf(" · %s", r.Location))
		}
		sb.WriteString(fmt.Sprintf(" · %s\n", r.EmploymentType))
	}
	sb.WriteString(moreLine(len(recs), "jobs"))

	p.printBox("RECOMMENDED JOBS", emptyOr(strings.TrimSuffix(sb.String(), "\n"), "No recommendations"))
}

// PrintResumeRecommendations outputs embedding-ranked resumes.
func (p *Printer) PrintResumeRecommendations(recs []types.ResumeRecommendation) {
	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := recs[i]
		name := r.FullName
		if name == "" {
			name = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("#%-2d %.4f  %s\n", i+1, r.Score, name))
		sb.WriteString(fmt.Sprintf("    %s\n", r.ResumeID))
	}
	sb.WriteString(moreLine(len(recs), "resumes"))

	p.printBox("RECOMMENDED RESUMES", emptyOr(strings.TrimSuffix(sb.String(), "\n"), "No recommendations"))
}

// PrintJobMatches outputs skill-overlap job matches with their reasons.
func (p *Printer) PrintJobMatches(matches []types.JobMatch) {
	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString(fmt.Sprintf("#%-2d %.4f  %s\n", i+1, m.Score, m.Title))
		sb.WriteString(fmt.Sprintf("    %s\n", m.JobID))
		for _, reason := range m.Reasons {
			sb.WriteString(fmt.Sprintf("    %s\n", reason))
		}
	}
	sb.WriteString(moreLine(len(matches), "jobs"))

	p.printBox("MATCHED JOBS", emptyOr(strings.TrimSuffix(sb.String(), "\n"), "No matches"))
}

// PrintCandidateMatches outputs skill-overlap candidate matches with their reasons.
func (p *Printer) PrintCandidateMatches(matches []types.CandidateMatch) {
	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString(fmt.Sprintf("#%-2d %.4f  %s\n", i+1, m.Score, m.FullName))
		sb.WriteString(fmt.Sprintf("    %s\n", m.ResumeID))
		for _, reason := range m.Reasons {
			sb.WriteString(fmt.Sprintf("    %s\n", reason))
		}
	}
	sb.WriteString(moreLine(len(matches), "candidates"))

	p.printBox("MATCHED CANDIDATES", emptyOr(strings.TrimSuffix(sb.String(), "\n"), "No matches"))
}

// PrintKeywordRanking outputs a job's applicants ranked by keyword similarity.
func (p *Printer) PrintKeywordRanking(ranking *types.KeywordRanking) {
	if ranking == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:       %s\n", ranking.JobID))
	sb.WriteString(fmt.Sprintf("Keywords:  %s\n", strings.Join(ranking.Keywords, ", ")))
	sb.WriteString(fmt.Sprintf("Applicants: %d\n", len(ranking.Rankings)))

	count := min(len(ranking.Rankings), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := ranking.Rankings[i]
		sb.WriteString(fmt.Sprintf("\n#%-2d %.4f  %s\n", i+1, r.Score, r.ResumeID))
		if len(r.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", strings.Join(r.MatchedSkills, ", ")))
		}
	}
	sb.WriteString(moreLine(len(ranking.Rankings), "applicants"))

	p.printBox("KEYWORD RANKING", strings.TrimSuffix(sb.String(), "\n"))
}
