// Package pkg holds the libraries behind custody, the KELP Chain-of-Custody
// form generator.
//
// # Overview
//
// A Chain-of-Custody (CoC) form records which water samples a client
// submitted and which analyses each sample needs. Its defining feature is
// the block of tall, narrow analysis columns whose headers are printed
// vertically: one column per analyte category, listing the abbreviated
// analytes and the regulatory method. custody turns the submitted values
// into that form as a PDF.
//
// # Architecture
//
//	form values (web UI, JSON or YAML file)
//	         ↓
//	    [coc] typed form model
//	         ↓
//	    [layout] columns, widths and vertical text fitting, against [catalog]
//	         ↓
//	    [render/form] draws the pages on a [render.Canvas] (fpdf)
//	         ↓
//	    PDF bytes, or the JSON column plan
//
// [pipeline] runs these stages with a [cache] in front of them; [server]
// and the CLI are thin shells over the pipeline.
//
// # Packages
//
//   - [catalog]: analyte categories, symbols, methods and matrix classes
//   - [coc]: form model, decoding, CoC identifiers and download names
//   - [layout]: column builder, width allocator and vertical text fitter
//   - [render]: drawing canvas over fpdf, plus a recording canvas for tests
//   - [render/form]: the custody form and its instructions page
//   - [pipeline]: cache-aware plan and render orchestration
//   - [cache]: null, file and Redis caches for rendered artifacts
//   - [server]: the web form and JSON API
//   - [config]: settings from file and environment
//   - [observability]: hooks around layout, render, cache and HTTP
//   - [errors]: coded errors shared by the CLI and the API
//   - [buildinfo]: version stamping
//
// # Quick Start
//
//	f, _ := coc.LoadForm("submission.yaml")
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Form: f})
//	name, _ := coc.DownloadName(f, time.Now())
//	os.WriteFile(name, res.Artifacts[pipeline.FormatPDF], 0o644)
package pkg
