// Package module holds the fleet's static identity model: module ids,
// address derivation, and the ECC/Surveyor lifecycle enums with their
// legal-transition predicates. Nothing in this package talks to the
// network or owns any channels — it is pure data and pure functions,
// the common vocabulary every other package imports.
package module

import "fmt"

// FleetConfig describes the fixed shape of the DAQ fleet: how many
// modules exist, which one is the master, and how to resolve each
// module's address and the ports its servers listen on.
//
// The spec treats the module count as fixed at build time; here it is
// a runtime value loaded once at startup and never mutated afterward,
// which gives the same guarantee (no dynamic discovery) without an
// actual compile-time constant.
type FleetConfig struct {
	NumModules     int
	MutantID       int
	BaseAddress    string // dotted /24 prefix, e.g. "192.168.1"
	Experiment     string
	ECCPort        int
	SurveyorPort   int
	DataRouterPort int
}

// NumCobos returns the number of CoBo modules (every module except the master).
func (f FleetConfig) NumCobos() int {
	return f.NumModules - 1
}

// IsMutant reports whether id names the master module.
func (f FleetConfig) IsMutant(id int) bool {
	return id == f.MutantID
}

// Address resolves a module id to its IPv4 address: the master gets
// ".1", CoBo i gets ".(60+i)".
func (f FleetConfig) Address(id int) string {
	if f.IsMutant(id) {
		return fmt.Sprintf("%s.1", f.BaseAddress)
	}
	return fmt.Sprintf("%s.%d", f.BaseAddress, 60+id)
}

// ECCURL resolves a module id to its ECC (SOAP-over-HTTP) endpoint.
func (f FleetConfig) ECCURL(id int) string {
	return fmt.Sprintf("http://%s:%d", f.Address(id), f.ECCPort)
}

// SurveyorURL resolves a CoBo id to its Surveyor (plain-text HTTP) endpoint.
func (f FleetConfig) SurveyorURL(id int) string {
	return fmt.Sprintf("http://%s:%d", f.Address(id), f.SurveyorPort)
}

// DescribeName is the `describe` identifier used in a module's configID
// block: the experiment name for the master, "cobo{id}" for a CoBo.
func (f FleetConfig) DescribeName(id int) string {
	if f.IsMutant(id) {
		return f.Experiment
	}
	return fmt.Sprintf("cobo%d", id)
}

// SourceName is the human-readable `source` tag used in a module's
// configID and DataLinkSet blocks and as its dashboard label.
func (f FleetConfig) SourceName(id int) string {
	if f.IsMutant(id) {
		return "Mutant[master]"
	}
	return fmt.Sprintf("CoBo[%d]", id)
}

// DataRouterName is the named data router a module's DataLinkSet block
// points its data sender at.
func (f FleetConfig) DataRouterName(id int) string {
	return fmt.Sprintf("data%d", id)
}
