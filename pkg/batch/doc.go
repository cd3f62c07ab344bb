// Package batch runs the overlay remover over a list of pages described
// by a YAML job file and records what happened on each.
//
// A job names its targets (live URLs or saved HTML snapshots), the URL
// patterns it may visit, the browser to use and where to write artifacts:
//
//	targets:
//	  - url: https://news.example.com
//	  - html: testdata/consent.html
//	    viewport: {width: 390, height: 844}
//	urls:
//	  denied_patterns: ["*://*.internal/*"]
//	browser:
//	  headless: true
//	artifacts:
//	  enabled: true
//	  output_dir: .unoverlay/artifacts
//	  screenshots: true
//
// Targets run one after another. A target that fails is recorded with its
// error and the job moves on; cancelling the context stops the job before
// the next target.
package batch
