package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

var (
	stateColors = map[model.RunState]*color.Color{
		model.RunPublished:       color.New(color.FgGreen, color.Bold),
		model.RunSkippedByPolicy: color.New(color.FgYellow, color.Bold),
		model.RunFailed:          color.New(color.FgRed, color.Bold),
	}

	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	skipMark = color.New(color.FgYellow).Sprint("-")
)

// printRunSummary renders the terminal run report: overall state,
// per-target build results and per-artifact publish outcomes.
func printRunSummary(record *model.RunRecord) {
	stateColor, ok := stateColors[record.State]
	if !ok {
		stateColor = color.New(color.Bold)
	}

	fmt.Printf("\nrun %s (%s %s @ %s)\n",
		record.ID, record.Trigger.Kind, record.Trigger.RefName, shortRevision(record.Revision))
	fmt.Printf("state: %s\n", stateColor.Sprint(string(record.State)))

	if len(record.Results) > 0 {
		fmt.Println("\ntargets:")
		for _, result := range record.Results {
			mark := okMark
			detail := result.Elapsed.Round(1e9).String()
			if result.Status == model.BuildFailed {
				mark = failMark
				detail = result.Error
			}
			fmt.Printf("  %s %-32s %s\n", mark, result.BundleName, detail)
		}
	}

	if record.Attestation != nil {
		fmt.Printf("\nattestation: %d subjects, key %s\n",
			len(record.Attestation.Statement.Subject), record.Attestation.KeyID)
	}

	if len(record.Outcomes) > 0 {
		fmt.Println("\npublish:")
		for _, outcome := range record.Outcomes {
			var mark, detail string
			switch outcome.Status {
			case model.PublishPublished:
				mark, detail = okMark, "published"
			case model.PublishSkippedExisting:
				mark, detail = skipMark, "already at index"
			default:
				mark, detail = failMark, outcome.Error
			}
			fmt.Printf("  %s %-32s %s\n", mark, outcome.Bundle, detail)
		}
	}
}

func shortRevision(revision string) string {
	if len(revision) > 12 {
		return revision[:12]
	}
	return revision
}
