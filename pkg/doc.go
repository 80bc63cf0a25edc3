// Package pkg provides the core libraries for equiplink catalog processing.
//
// # Overview
//
// Equiplink manages YAML equipment catalogs for linked placement workflows.
// The pkg directory is organized into three main areas:
//
//  1. Domain logic: [catalog], [relations], [resolve], [mergecat]
//  2. Primitives: [omap], [geometry], [offset]
//  3. Infrastructure: [cache], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow through equiplink:
//
//	Raw catalog export (YAML)
//	         ↓
//	    [mergecat] package (extract → merge → renumber → reorder → validate)
//	         ↓
//	    [catalog] package (typed access over ordered records)
//	         ↓
//	    [relations] + [resolve] packages (link graph → placement requests)
//
// Records travel through every stage as [omap.Map] values, so keys the tool
// does not recognize survive byte-for-byte in value and order.
package pkg
