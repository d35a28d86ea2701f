package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"marketscope/internal/extract"
	"marketscope/internal/orchestrator"
)

func init() {
	color.NoColor = true
}

func sampleReport() orchestrator.Report {
	return orchestrator.Report{
		Query:     "Adidas Samba sneakers",
		SessionID: "session-20260830-100000",
		SpecialistResults: map[string]extract.Record{
			orchestrator.AgentProduct: {
				"price":        "$120",
				"agent_name":   "product",
				"raw_response": "should not appear",
			},
			orchestrator.AgentCompetitor: {
				"error":    "agent threw",
				"agent":    "competitor",
				"raw_text": "",
			},
			orchestrator.AgentSentiment: {
				"overall": "positive",
			},
		},
		Synthesis: extract.Record{"recommendation": "buy"},
		ExecutionSummary: orchestrator.ExecutionSummary{
			AgentsCompleted:      2,
			TotalAgents:          3,
			OrchestrationSuccess: true,
			TelemetryEnabled:     true,
			TelemetryContextSet:  true,
		},
	}
}

func TestPrintSummary(t *testing.T) {
	var buf strings.Builder
	PrintSummary(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"Adidas Samba sneakers",
		"session-20260830-100000",
		"Product Intelligence",
		"price: $120",
		"Competitive Intelligence: agent threw",
		"Customer Sentiment",
		"recommendation: buy",
		"agents 2/3",
		"synthesis ok",
		"telemetry on",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "should not appear") {
		t.Error("raw_response leaked into rendered output")
	}
}

func TestPrintSummaryFatalError(t *testing.T) {
	report := orchestrator.Report{
		Query:     "widget",
		SessionID: "s1",
		Error:     "Analysis failed: no credentials",
		ExecutionSummary: orchestrator.ExecutionSummary{
			TotalAgents: 3,
		},
	}

	var buf strings.Builder
	PrintSummary(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "Analysis failed: no credentials") {
		t.Errorf("output missing error message:\n%s", out)
	}
	if !strings.Contains(out, "agents 0/3") {
		t.Errorf("output missing zeroed summary:\n%s", out)
	}
	if strings.Contains(out, "Synthesis") {
		t.Error("fatal report should not render synthesis section")
	}
}

func TestPrintSummarySynthesisFailure(t *testing.T) {
	report := sampleReport()
	report.Synthesis = extract.Record{"error": "synthesis timed out", "agent": "orchestrator"}
	report.ExecutionSummary.OrchestrationSuccess = false

	var buf strings.Builder
	PrintSummary(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "synthesis timed out") {
		t.Errorf("output missing synthesis error:\n%s", out)
	}
	if !strings.Contains(out, "synthesis failed") {
		t.Errorf("output missing failed status:\n%s", out)
	}
}
