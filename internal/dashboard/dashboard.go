// Package dashboard renders the fleet's status as a colorized terminal
// table, the one synchronous consumer of the hub's polling surface
// that spec.md §1 scopes out of the core engine but still needs a
// concrete, idiomatic home. Grounded in
// _examples/DanDo385-eth-rpc-monitor/internal/output/terminal.go's
// rodaine/table + fatih/color rendering.
package dashboard

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/gwm17/attpc-envoy/internal/aggregator"
	"github.com/gwm17/attpc-envoy/internal/module"
	"github.com/gwm17/attpc-envoy/internal/rategraph"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func colorizeECC(s module.ECCState) string {
	switch s {
	case module.ECCRunning, module.ECCReady:
		return green(s.String())
	case module.ECCTransition, module.ECCBusy:
		return yellow(s.String())
	case module.ECCOffline, module.ECCError, module.ECCInconsistent:
		return red(s.String())
	default:
		return s.String()
	}
}

func colorizeSurveyor(s module.SurveyorState) string {
	switch s {
	case module.SurveyorOnline:
		return green(s.String())
	case module.SurveyorOffline, module.SurveyorInvalid, module.SurveyorInconsistent:
		return red(s.String())
	default:
		return s.String()
	}
}

// Render writes one frame of the fleet dashboard to w: a header line
// with the aggregated system state and a per-module table. The rate
// graphs are not drawn; the Rate column shows each CoBo's latest
// Surveyor data rate.
func Render(w io.Writer, fleet module.FleetConfig, agg *aggregator.Aggregator, graphs *rategraph.Manager) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  ECC: %s   Surveyor: %s\n",
		bold("attpc-envoy"), colorizeECC(agg.GetSystemECCStatus()), colorizeSurveyor(agg.GetSurveyorSystemStatus()))
	fmt.Fprintln(w, cyan("───────────────────────────────────────────────────────────────────"))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Module", "Role", "ECC State", "Surveyor", "Disk", "Rate (B/s)")
	tbl.WithWriter(w)
	tbl.WithHeaderFormatter(headerFmt)

	eccStatus := agg.GetECCStatus()
	surveyorStatus := agg.GetSurveyorStatus()

	for id := 0; id < fleet.NumModules; id++ {
		role := fleet.SourceName(id)
		eccState := colorizeECC(eccStatus[id].Effective())

		surveyorCol := "—"
		diskCol := "—"
		rateCol := "—"
		if !fleet.IsMutant(id) && id < len(surveyorStatus) {
			s := surveyorStatus[id]
			surveyorCol = colorizeSurveyor(s.State())
			diskCol = s.DiskStatus
			rateCol = fmt.Sprintf("%.0f", s.DataRate)
		}

		tbl.AddRow(id, role, eccState, surveyorCol, diskCol, rateCol)
	}

	tbl.Print()
	fmt.Fprintln(w)
}
