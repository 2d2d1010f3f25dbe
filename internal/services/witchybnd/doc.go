// Package witchybnd wraps the WitchyBND command line tool, which unpacks
// FromSoftware binder archives (.anibnd.dcx, .behbnd.dcx, .chrbnd.dcx).
//
// WitchyBND unpacks an archive into a folder next to the input file, so the
// client first copies each bundle into a throwaway staging directory, runs
// the tool there, and then sorts the results into hkx/tae/other trees under
// the extract directory. The Executor seam lets tests run the whole flow
// against a fake tool.
package witchybnd
