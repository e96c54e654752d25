// Package layout plans the analysis columns of a Chain-of-Custody table.
//
// # Overview
//
// The set of tests requested on a custody form is data dependent: each sample
// selects analytes from catalogue categories, and every selected analyte must
// appear in a column header. Headers are printed rotated 90° inside a fixed
// block of the page, so the planner has three jobs that run in sequence:
//
//  1. Columns ([BuildColumns]): union the selections per category, abbreviate
//     analytes through the catalogue symbol table and split any category whose
//     label overflows the header height into "cont'd" columns.
//  2. Widths ([Allocate]): divide the fixed block width equally between the
//     columns. The block never grows; narrow columns are reported as cramped.
//  3. Text ([FitVertical]): place each label and its method annotation as
//     rotated runs, shrinking then wrapping until they fit.
//
// [Plan] runs all three and returns a [Header], which the renderer draws and
// queries through [Header.Marks] to place an "X" in each sample row.
//
// # Measuring
//
// Every width decision goes through a [Measurer], normally backed by the PDF
// font metrics. [FixedMeasurer] gives deterministic widths for tests.
//
//	h := layout.Plan(catalog.Default(), form.Samples, layout.HeaderGeometry{
//	    X: 476, Width: 184, Y: 299.5, Height: 190.5,
//	}, layout.Options{Measurer: measurer})
package layout
